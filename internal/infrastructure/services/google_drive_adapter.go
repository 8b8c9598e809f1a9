package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-drive-dedup/internal/domain/entities"
	"go-drive-dedup/internal/domain/services"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	folderFields = "nextPageToken, files(id, name, parents)"
	fileFields   = "nextPageToken, files(id, name, size, mimeType, parents, md5Checksum, modifiedTime, createdTime)"

	// DefaultFolderURLBase prefixes a folder id to build its browser link
	DefaultFolderURLBase = "https://drive.google.com/drive/folders/"
)

// Native Google formats carry no md5Checksum, so they are excluded from the file query
var nativeSubTypes = []string{
	"document", "spreadsheet", "presentation", "folder",
	"form", "site", "audio", "video", "photo", "script",
	"drive-sdk", "drawing", "jam", "map", "vid", "file",
	"unknown", "fusiontable", "mail-layout", "kix",
	"ritz", "punch", "freebird", "shortcut",
}

// GoogleDriveOptions configures the Drive adapter
type GoogleDriveOptions struct {
	CredentialsPath string
	TokenPath       string
	APIKey          string
	PageSize        int64
	MaxRetries      int
	RequestTimeout  time.Duration
	FolderURLBase   string
}

type GoogleDriveAdapter struct {
	service        *drive.Service
	pageSize       int64
	maxRetries     int
	backoff        time.Duration
	requestTimeout time.Duration
	folderURLBase  string
	logger         *zap.Logger
}

// NewGoogleDriveAdapter creates a Drive-backed storage provider from credentials or an API key
func NewGoogleDriveAdapter(ctx context.Context, opts GoogleDriveOptions, logger *zap.Logger) (*GoogleDriveAdapter, error) {
	var service *drive.Service
	var err error

	if opts.CredentialsPath != "" {
		// Try OAuth2 client credentials first
		service, err = createOAuth2Service(ctx, opts.CredentialsPath, opts.TokenPath)
		if err != nil {
			// Fallback to service account credentials
			service, err = drive.NewService(ctx,
				option.WithCredentialsFile(opts.CredentialsPath),
				option.WithScopes(drive.DriveReadonlyScope))
			if err != nil {
				return nil, fmt.Errorf("failed to create Drive service with credentials: %w", err)
			}
		}
	} else if opts.APIKey != "" {
		service, err = drive.NewService(ctx, option.WithAPIKey(opts.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Drive service with API key: %w", err)
		}
	} else {
		return nil, fmt.Errorf("either credentials file or API key must be provided")
	}

	return NewGoogleDriveAdapterWithService(service, opts, logger), nil
}

// NewGoogleDriveAdapterWithService wraps an existing Drive service
func NewGoogleDriveAdapterWithService(service *drive.Service, opts GoogleDriveOptions, logger *zap.Logger) *GoogleDriveAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 1000 // Maximum allowed by Drive API
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	folderURLBase := opts.FolderURLBase
	if folderURLBase == "" {
		folderURLBase = DefaultFolderURLBase
	}
	return &GoogleDriveAdapter{
		service:        service,
		pageSize:       pageSize,
		maxRetries:     maxRetries,
		backoff:        time.Second,
		requestTimeout: opts.RequestTimeout,
		folderURLBase:  folderURLBase,
		logger:         logger,
	}
}

func (g *GoogleDriveAdapter) GetProviderName() string {
	return "Google Drive"
}

func (g *GoogleDriveAdapter) FolderURL(folderID string) string {
	return g.folderURLBase + folderID
}

func (g *GoogleDriveAdapter) RootFolderID(ctx context.Context) (string, error) {
	var root *drive.File
	err := g.withRetry(ctx, func(callCtx context.Context) error {
		var err error
		root, err = g.service.Files.Get("root").Fields("id").Context(callCtx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to get root folder: %w", err)
	}
	return root.Id, nil
}

func (g *GoogleDriveAdapter) ListFolders(ctx context.Context) ([]*entities.RawFolder, error) {
	var folders []*entities.RawFolder
	query := FolderQuery()
	pageToken := ""

	for {
		fileList, err := g.listPage(ctx, query, folderFields, pageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to list folders: %w", err)
		}

		for _, driveFile := range fileList.Files {
			folders = append(folders, &entities.RawFolder{
				ID:      driveFile.Id,
				Name:    driveFile.Name,
				Parents: driveFile.Parents,
			})
		}

		pageToken = fileList.NextPageToken
		if pageToken == "" {
			break
		}
	}

	g.logger.Debug("listed folders", zap.Int("count", len(folders)))
	return folders, nil
}

func (g *GoogleDriveAdapter) ListFiles(ctx context.Context) (services.FileIterator, error) {
	return &driveFileIterator{adapter: g, query: FileQuery()}, nil
}

// FolderQuery selects every non-trashed folder owned by the account
func FolderQuery() string {
	return fmt.Sprintf("mimeType = '%s' and trashed = false and 'me' in owners", entities.FolderMimeType)
}

// FileQuery selects every non-trashed owned file that is not a native Google format
func FileQuery() string {
	const googleBase = "application/vnd.google-apps."
	exclusions := make([]string, 0, len(nativeSubTypes))
	for _, subType := range nativeSubTypes {
		exclusions = append(exclusions, fmt.Sprintf("mimeType != '%s%s'", googleBase, subType))
	}
	return strings.Join(exclusions, " and ") + " and trashed = false and 'me' in owners"
}

func (g *GoogleDriveAdapter) listPage(ctx context.Context, query, fields, pageToken string) (*drive.FileList, error) {
	var fileList *drive.FileList
	err := g.withRetry(ctx, func(callCtx context.Context) error {
		call := g.service.Files.List().
			Q(query).
			PageSize(g.pageSize).
			Fields(googleapi.Field(fields))
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		var err error
		fileList, err = call.Context(callCtx).Do()
		return err
	})
	return fileList, err
}

// driveFileIterator fetches one page at a time as the caller advances
type driveFileIterator struct {
	adapter   *GoogleDriveAdapter
	query     string
	buffer    []*drive.File
	pageToken string
	fetched   bool
	pages     int
}

func (it *driveFileIterator) Next(ctx context.Context) (*entities.RawFile, error) {
	for len(it.buffer) == 0 {
		if it.fetched && it.pageToken == "" {
			return nil, io.EOF
		}
		fileList, err := it.adapter.listPage(ctx, it.query, fileFields, it.pageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to list files (page %d): %w", it.pages+1, err)
		}
		it.fetched = true
		it.pages++
		it.buffer = fileList.Files
		it.pageToken = fileList.NextPageToken
		it.adapter.logger.Debug("fetched file page",
			zap.Int("page", it.pages),
			zap.Int("items", len(fileList.Files)),
			zap.Bool("more", it.pageToken != ""))
	}

	driveFile := it.buffer[0]
	it.buffer = it.buffer[1:]
	return convertDriveFile(driveFile), nil
}

func convertDriveFile(driveFile *drive.File) *entities.RawFile {
	return &entities.RawFile{
		ID:           driveFile.Id,
		Name:         driveFile.Name,
		Size:         strconv.FormatInt(driveFile.Size, 10),
		MimeType:     driveFile.MimeType,
		Parents:      driveFile.Parents,
		Checksum:     driveFile.Md5Checksum,
		ModifiedTime: driveFile.ModifiedTime,
		CreatedTime:  driveFile.CreatedTime,
	}
}

// Retry mechanism for API calls

func (g *GoogleDriveAdapter) withRetry(ctx context.Context, operation func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		callCtx, cancel := g.callContext(ctx)
		err := operation(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == g.maxRetries {
			break
		}

		// Exponential backoff
		delay := g.backoff * time.Duration(1<<uint(attempt))
		g.logger.Warn("drive request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if g.maxRetries > 0 && isRetryable(lastErr) {
		return fmt.Errorf("operation failed after %d retries: %w", g.maxRetries, lastErr)
	}
	return lastErr
}

func (g *GoogleDriveAdapter) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.requestTimeout)
}

func isRetryable(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests, apiErr.Code >= 500:
		return true
	case apiErr.Code == http.StatusForbidden:
		for _, item := range apiErr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}

// OAuth2 client credential support functions

func createOAuth2Service(ctx context.Context, credentialsPath, tokenPath string) (*drive.Service, error) {
	// Read OAuth2 client credentials
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	token, err := getTokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("unable to get valid token: %w", err)
	}

	client := config.Client(ctx, token)

	service, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive service: %w", err)
	}

	return service, nil
}

func getTokenFromFile(tokenPath string) (*oauth2.Token, error) {
	if tokenPath == "" {
		tokenPath = "token.json"
	}
	f, err := os.Open(tokenPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
