package utils

import (
	"fmt"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/appcontext"
	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

func CompanyToDocument(company *entity.Company) map[string]interface{} {
	return map[string]interface{}{
		"id":          company.ID.String(),
		"type":        "company",
		"name":        company.Name,
		"sector":      company.Sector,
		"status":      company.Status,
		"description": company.Description,
	}
}

func IndexDocument(ctx *appcontext.Context, document map[string]interface{}) error {
	_, err := ctx.MeilisearchClient.Index("portfolio").AddDocuments([]map[string]interface{}{document})
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	return nil
}

func RemoveDocument(ctx *appcontext.Context, id string) error {
	_, err := ctx.MeilisearchClient.Index("portfolio").DeleteDocument(id)
	if err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	return nil
}
