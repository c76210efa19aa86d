package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lauzhack/pictorial/internal/domain"
	"github.com/lauzhack/pictorial/internal/repository"
)

var (
	ErrGenerationFailed = errors.New("image generation failed")
)

type GenerationService struct {
	generationRepo repository.GenerationRepository
	generator      ImageGenerator
	store          ImageStore
}

func NewGenerationService(generationRepo repository.GenerationRepository, generator ImageGenerator, store ImageStore) *GenerationService {
	return &GenerationService{
		generationRepo: generationRepo,
		generator:      generator,
		store:          store,
	}
}

// GenerationView is a stored generation plus a URL for its image.
type GenerationView struct {
	Generation *domain.Generation
	ImageURL   string
}

// Generate asks the generator for an image, stores it and records the
// generation for userID. Generator and store failures wrap ErrGenerationFailed.
func (s *GenerationService) Generate(ctx context.Context, userID int64, prompt string) (*GenerationView, error) {
	payload, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	data, err := decodeImagePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", ErrGenerationFailed, err)
	}

	imageID, _, err := s.store.Save(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: save image: %v", ErrGenerationFailed, err)
	}

	generation := &domain.Generation{
		UserID:    userID,
		ImageID:   imageID,
		Prompt:    prompt,
		CreatedAt: time.Now(),
	}
	if err := s.generationRepo.Create(ctx, generation); err != nil {
		// The request context may already be done; the cleanup still runs.
		if delErr := s.store.Delete(context.WithoutCancel(ctx), imageID); delErr != nil {
			return nil, fmt.Errorf("record generation: %w (orphaned image %s: %v)", err, imageID, delErr)
		}
		return nil, fmt.Errorf("record generation: %w", err)
	}

	url, err := s.store.URL(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("resolve image url: %w", err)
	}

	return &GenerationView{Generation: generation, ImageURL: url}, nil
}

// Library lists the user's generations newest first.
func (s *GenerationService) Library(ctx context.Context, userID int64) ([]GenerationView, error) {
	generations, err := s.generationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]GenerationView, 0, len(generations))
	for _, g := range generations {
		url, err := s.store.URL(ctx, g.ImageID)
		if err != nil {
			return nil, fmt.Errorf("resolve image url: %w", err)
		}
		views = append(views, GenerationView{Generation: g, ImageURL: url})
	}
	return views, nil
}

// decodeImagePayload accepts raw base64 or a base64 data URL.
func decodeImagePayload(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		if i := strings.Index(payload, ","); i >= 0 {
			payload = payload[i+1:]
		}
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errors.New("empty payload")
	}
	return base64.StdEncoding.DecodeString(payload)
}
