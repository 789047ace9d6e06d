package backup

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/gymtracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	RootFolderName = "gymtracker-backup"
	folderMimeType = "application/vnd.google-apps.folder"
)

type GoogleDriveBackupService struct {
	service         *drive.Service
	backupsFolderId string
}

// DriveClientOptions turns service account credentials into client options
// whose transport is traced.
func DriveClientOptions(ctx context.Context, credentialsJson []byte) ([]option.ClientOption, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJson, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}

	tracedCtx := context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	return []option.ClientOption{
		option.WithHTTPClient(oauth2.NewClient(tracedCtx, creds.TokenSource)),
	}, nil
}

// NewGoogleDriveBackupService finds the backups folder, creating it when missing.
func NewGoogleDriveBackupService(ctx context.Context, opts ...option.ClientOption) (*GoogleDriveBackupService, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	s := &GoogleDriveBackupService{
		service: driveService,
	}

	rootFolderQuery := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, RootFolderName)
	folders, err := driveService.
		Files.List().
		Q(rootFolderQuery).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	switch len(folders.Files) {
	case 0:
		log.Println("root backups folder not found, will create")
		s.backupsFolderId, err = s.createRootBackupsFolder(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create root backups folder: %w", err)
		}
		log.Printf("root backups folder created: %s", s.backupsFolderId)
	case 1:
		s.backupsFolderId = folders.Files[0].Id
	default:
		s.backupsFolderId = folders.Files[0].Id
		log.Warnf("attention: found %d root backups folders, will take the first one: %s", len(folders.Files), s.backupsFolderId)
	}

	log.Debugf("backups folder ID: %s", s.backupsFolderId)
	return s, nil
}

func (s *GoogleDriveBackupService) FolderID() string {
	return s.backupsFolderId
}

func (s *GoogleDriveBackupService) createRootBackupsFolder(ctx context.Context) (string, error) {
	folder, err := s.service.
		Files.Create(&drive.File{
			Name:     RootFolderName,
			MimeType: folderMimeType,
		}).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return folder.Id, nil
}

// Upload stores one export document in the backups folder.
func (s *GoogleDriveBackupService) Upload(ctx context.Context, name string, payload []byte) (_ *drive.File, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "backup.drive.upload")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	file, err := s.service.
		Files.Create(&drive.File{
			Name:     name,
			MimeType: "application/json",
			Parents:  []string{s.backupsFolderId},
		}).
		Media(bytes.NewReader(payload), googleapi.ContentType("application/json")).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	log.Infof("backup uploaded: %s (%s), %d bytes", file.Name, file.Id, len(payload))
	return file, nil
}

// List returns the backup files currently in the backups folder.
func (s *GoogleDriveBackupService) List(ctx context.Context) ([]*drive.File, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType != '%s' and trashed = false", s.backupsFolderId, folderMimeType)
	backups, err := s.service.
		Files.List().
		Q(query).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return backups.Files, nil
}
