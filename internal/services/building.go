package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/campusboard/server/internal/storage"
)

const (
	MinBuildingID = 1
	MaxBuildingID = 99

	buildingPrefix      = "building/"
	buildingContentType = "text/html; charset=utf-8"
	maxBuildingPageSize = 4 << 20
)

// PageStore is the object storage a BuildingService reads pages from.
type PageStore interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// BuildingService serves the static building information pages.
// A nil store disables the feature.
type BuildingService struct {
	pages PageStore
}

func NewBuildingService(pages PageStore) *BuildingService {
	return &BuildingService{pages: pages}
}

// BuildingPageKey returns the object key of the page for building id.
func BuildingPageKey(id int) string {
	return fmt.Sprintf("%sB%02d.html", buildingPrefix, id)
}

// BuildingIDFromFilename parses names like "B07.html".
func BuildingIDFromFilename(name string) (int, bool) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if !strings.HasPrefix(base, "B") || !strings.HasSuffix(base, ".html") {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(base, "B"), ".html")
	if len(digits) != 2 {
		return 0, false
	}
	id, err := strconv.Atoi(digits)
	if err != nil || id < MinBuildingID || id > MaxBuildingID {
		return 0, false
	}
	return id, true
}

// Page returns the HTML of building id.
func (s *BuildingService) Page(ctx context.Context, id int) ([]byte, error) {
	if id < MinBuildingID || id > MaxBuildingID {
		return nil, newError(ErrNotFound, "That building does not exist.")
	}
	if s.pages == nil {
		return nil, newError(ErrUnavailable, "Building pages are not configured.")
	}

	rc, err := s.pages.Get(ctx, BuildingPageKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, wrapError(ErrNotFound, "That building does not exist.", err)
		}
		return nil, wrapError(ErrInternal, "Failed to load building page.", err)
	}
	defer rc.Close()

	page, err := io.ReadAll(io.LimitReader(rc, maxBuildingPageSize))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, wrapError(ErrNotFound, "That building does not exist.", err)
		}
		return nil, wrapError(ErrInternal, "Failed to load building page.", err)
	}
	return page, nil
}

// Upload stores the page for building id.
func (s *BuildingService) Upload(ctx context.Context, id int, r io.Reader, size int64) error {
	if id < MinBuildingID || id > MaxBuildingID {
		return newError(ErrValidation, fmt.Sprintf("Building id must be between %d and %d.", MinBuildingID, MaxBuildingID))
	}
	if s.pages == nil {
		return newError(ErrUnavailable, "Building pages are not configured.")
	}
	if err := s.pages.Put(ctx, BuildingPageKey(id), r, size, buildingContentType); err != nil {
		return wrapError(ErrInternal, "Failed to store building page.", err)
	}
	return nil
}
