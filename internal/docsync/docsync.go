// Package docsync reconciles the desired document list of a round against the
// persisted document records and the cloud mirror.
package docsync

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royrubin05/RSquaredPorfolio-sub000/internal/entity"
)

// Drive is the cloud mirror boundary. The production implementation lives in
// internal/drive.
type Drive interface {
	EnsureFolder(name string) (string, error)
	UploadFile(name, mimeType string, data []byte, folderID string) (string, error)
	DeleteFile(fileID string) error
}

// Recorder is the slice of the persistence layer the syncer needs. The
// rounds store satisfies it.
type Recorder interface {
	DocumentsByRound(companyID uuid.UUID, roundID *uuid.UUID) ([]entity.CompanyDocument, error)
	InsertDocument(doc *entity.CompanyDocument) error
	UpdateDocument(id uuid.UUID, patch map[string]interface{}) error
	DeleteDocument(id uuid.UUID) error
}

// DocumentInput is one entry of the desired document set for a round save.
// Data carries the raw bytes when the document was just uploaded; otherwise
// the bytes are fetched from URL.
type DocumentInput struct {
	ID   *uuid.UUID `json:"id"`
	Name string     `json:"name"`
	Type string     `json:"type"`
	Size int64      `json:"size"`
	URL  string     `json:"url"`
	Data []byte     `json:"-"`
}

type Syncer struct {
	drive  Drive
	client *http.Client
	logger *zap.Logger
}

func NewSyncer(drive Drive, logger *zap.Logger) *Syncer {
	return &Syncer{
		drive:  drive,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Sync brings records and mirror in line with desired:
//   - desired documents without a record are uploaded and recorded
//   - records without a mirror id are retried
//   - records absent from desired are deleted remotely (best effort) and
//     their record removed
//
// Upload and folder failures abort the sync; remote deletion failures are
// returned as warnings only.
func (s *Syncer) Sync(company *entity.Company, roundID uuid.UUID, desired []DocumentInput, rec Recorder) ([]string, error) {
	existing, err := rec.DocumentsByRound(company.ID, &roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	folderID, err := s.drive.EnsureFolder(company.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mirror folder for %q: %w", company.Name, err)
	}

	var warnings []string
	keep := make(map[uuid.UUID]bool, len(desired))

	for _, d := range desired {
		record := matchRecord(existing, d)
		if record != nil {
			keep[record.ID] = true
			if record.DriveFileID != nil {
				continue
			}
			// Record exists but the mirror upload never succeeded; retry.
			fileID, err := s.upload(d, folderID)
			if err != nil {
				return warnings, err
			}
			if err := rec.UpdateDocument(record.ID, map[string]interface{}{"drive_file_id": fileID}); err != nil {
				return warnings, fmt.Errorf("failed to record mirror id for %q: %w", d.Name, err)
			}
			continue
		}

		fileID, err := s.upload(d, folderID)
		if err != nil {
			return warnings, err
		}
		doc := entity.CompanyDocument{
			CompanyID:   company.ID,
			RoundID:     &roundID,
			Name:        d.Name,
			FileType:    d.Type,
			SizeBytes:   d.Size,
			URL:         d.URL,
			DriveFileID: &fileID,
		}
		if err := rec.InsertDocument(&doc); err != nil {
			return warnings, fmt.Errorf("failed to record document %q: %w", d.Name, err)
		}
		keep[doc.ID] = true
	}

	for _, record := range existing {
		if keep[record.ID] {
			continue
		}
		if record.DriveFileID != nil {
			if err := s.drive.DeleteFile(*record.DriveFileID); err != nil {
				s.logger.Warn("Failed to delete mirrored document", zap.String("name", record.Name), zap.Error(err))
				warnings = append(warnings, fmt.Sprintf("Document %q could not be removed from the cloud mirror.", record.Name))
			}
		}
		if err := rec.DeleteDocument(record.ID); err != nil {
			return warnings, fmt.Errorf("failed to delete document record %q: %w", record.Name, err)
		}
	}

	return warnings, nil
}

func (s *Syncer) upload(d DocumentInput, folderID string) (string, error) {
	data := d.Data
	if len(data) == 0 {
		fetched, err := s.fetch(d.URL)
		if err != nil {
			return "", fmt.Errorf("failed to fetch %q: %w", d.Name, err)
		}
		data = fetched
	}
	fileID, err := s.drive.UploadFile(d.Name, d.Type, data, folderID)
	if err != nil {
		return "", fmt.Errorf("failed to mirror %q: %w", d.Name, err)
	}
	return fileID, nil
}

func (s *Syncer) fetch(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("no source url")
	}
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func matchRecord(existing []entity.CompanyDocument, d DocumentInput) *entity.CompanyDocument {
	for i := range existing {
		if d.ID != nil && existing[i].ID == *d.ID {
			return &existing[i]
		}
	}
	for i := range existing {
		if d.ID == nil && existing[i].Name == d.Name {
			return &existing[i]
		}
	}
	return nil
}
