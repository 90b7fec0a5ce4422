package cases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrEmptyUpload  = errors.New("empty upload")
)

type Service struct {
	repo   Repository
	bucket string
	now    func() time.Time
}

func NewService(repo Repository, bucket string) *Service {
	return &Service{
		repo:   repo,
		bucket: bucket,
		now:    time.Now,
	}
}

type CreateInput struct {
	UserID   string
	Type     string
	Species  string
	Geohash6 string
	Consent  Consent
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Case, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return Case{}, ErrInvalidInput
	}
	typ := CaseType(strings.TrimSpace(in.Type))
	if typ != TypeLost && typ != TypeFound {
		return Case{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Species) == "" {
		return Case{}, ErrInvalidInput
	}
	gh := strings.TrimSpace(in.Geohash6)
	if len(gh) < 6 || len(gh) > 12 {
		return Case{}, ErrInvalidInput
	}

	c := Case{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(in.UserID),
		Type:      typ,
		Species:   strings.TrimSpace(in.Species),
		Geohash6:  gh,
		Consent:   in.Consent,
		Status:    StatusOpen,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Case{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Case, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Case{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// AddPhoto registra metadata de una foto. El binario no se persiste:
// se calcula el hash y se sintetiza la URL destino (s3://bucket/case/file).
func (s *Service) AddPhoto(ctx context.Context, caseID, filename string, contents []byte, view string) (Photo, error) {
	if _, err := s.GetByID(ctx, caseID); err != nil {
		return Photo{}, err
	}
	if len(contents) == 0 {
		return Photo{}, ErrEmptyUpload
	}
	if strings.TrimSpace(filename) == "" {
		filename = "upload.bin"
	}

	digest := sha256.Sum256(contents)
	p := Photo{
		ID:           uuid.NewString(),
		CaseID:       caseID,
		URLEncrypted: fmt.Sprintf("s3://%s/%s/%s", s.bucket, caseID, filename),
		View:         strings.TrimSpace(view),
		Hash:         hex.EncodeToString(digest[:]),
		CreatedAt:    s.now(),
	}

	if err := s.repo.AddPhoto(ctx, p); err != nil {
		return Photo{}, err
	}
	return p, nil
}

// Detail devuelve el caso junto con sus fotos.
func (s *Service) Detail(ctx context.Context, id string) (Case, []Photo, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Case{}, nil, err
	}
	photos, err := s.repo.ListPhotos(ctx, c.ID)
	if err != nil {
		return Case{}, nil, err
	}
	return c, photos, nil
}

// Erase borra el caso en cascada. deleted=false si no existía
// (la respuesta del endpoint lo reporta sin error).
func (s *Service) Erase(ctx context.Context, id string) (bool, error) {
	err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
