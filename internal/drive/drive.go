// Package drive implements the cloud mirror on Google Drive with a service
// account.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

type Service struct {
	svc *drive.Service

	// RootFolderID scopes all portfolio folders under one shared folder when
	// set; otherwise folders are created at the drive root.
	RootFolderID string
}

func NewService(ctx context.Context, credentialsPath string) (*Service, error) {
	credentials, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentials, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drive credentials: %w", err)
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize drive service: %w", err)
	}

	return &Service{svc: svc, RootFolderID: os.Getenv("DRIVE_ROOT_FOLDER_ID")}, nil
}

// EnsureFolder finds a folder by name (under the root folder when configured)
// or creates it, returning its id.
func (s *Service) EnsureFolder(name string) (string, error) {
	safeName := strings.ReplaceAll(name, "/", "-")

	query := fmt.Sprintf("mimeType='%s' and name='%s' and trashed=false", folderMimeType, escapeQuery(safeName))
	if s.RootFolderID != "" {
		query += fmt.Sprintf(" and '%s' in parents", s.RootFolderID)
	}

	list, err := s.svc.Files.List().Q(query).Fields("files(id, name)").Do()
	if err != nil {
		return "", fmt.Errorf("failed to search for folder %q: %w", safeName, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder := &drive.File{
		Name:     safeName,
		MimeType: folderMimeType,
	}
	if s.RootFolderID != "" {
		folder.Parents = []string{s.RootFolderID}
	}
	created, err := s.svc.Files.Create(folder).Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", safeName, err)
	}
	return created.Id, nil
}

func (s *Service) UploadFile(name, mimeType string, data []byte, folderID string) (string, error) {
	meta := &drive.File{
		Name:    name,
		Parents: []string{folderID},
	}
	created, err := s.svc.Files.Create(meta).Media(bytes.NewReader(data)).Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", name, err)
	}
	return created.Id, nil
}

// DeleteFile trashes the file rather than deleting it permanently.
func (s *Service) DeleteFile(fileID string) error {
	_, err := s.svc.Files.Update(fileID, &drive.File{Trashed: true}).Do()
	return err
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
