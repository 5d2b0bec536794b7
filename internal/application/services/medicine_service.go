package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yab-g4u/IDA-sub000/internal/catalog"
	"github.com/yab-g4u/IDA-sub000/internal/domain/entities"
	"github.com/yab-g4u/IDA-sub000/internal/domain/providers"
	"github.com/yab-g4u/IDA-sub000/internal/infrastructure/observability"
	apperrors "github.com/yab-g4u/IDA-sub000/pkg/errors"
)

const maxMedicineNameLength = 100

// MedicineServiceConfig tunes MedicineService.
type MedicineServiceConfig struct {
	ProviderTimeout time.Duration
	CacheTTL        time.Duration
}

// MedicineService describes medicines. It prefers the generative provider
// and falls back to the curated catalog, then to a generic description, so
// Describe only fails on invalid input.
type MedicineService struct {
	catalog  *catalog.MedicineCatalog
	names    *NameIndex
	provider providers.MedicineInfoProvider
	cache    providers.CacheProvider
	history  *SearchHistoryService
	cfg      MedicineServiceConfig

	// providerDisabled is set once the provider rejects our credentials.
	providerDisabled atomic.Bool
}

// NewMedicineService creates a medicine service. provider, cache and history
// may be nil.
func NewMedicineService(
	medicines *catalog.MedicineCatalog,
	provider providers.MedicineInfoProvider,
	cache providers.CacheProvider,
	history *SearchHistoryService,
	cfg MedicineServiceConfig,
) *MedicineService {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 10 * time.Second
	}
	return &MedicineService{
		catalog:  medicines,
		names:    NewNameIndex(medicines.Names()),
		provider: provider,
		cache:    cache,
		history:  history,
		cfg:      cfg,
	}
}

// Describe returns information about the named medicine.
func (s *MedicineService) Describe(ctx context.Context, name, userID string) (*entities.MedicineInfo, error) {
	input := strings.TrimSpace(name)
	if input == "" {
		return nil, apperrors.NewValidationError("medicine name is required")
	}
	if len(input) > maxMedicineNameLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("medicine name must be at most %d characters", maxMedicineNameLength))
	}

	ctx, span := observability.StartSpan(ctx, "MedicineService.Describe")
	defer span.End()

	canonical, tier, ok := s.names.Match(input)
	if !ok {
		canonical = input
	}
	observability.SetSpanAttributes(span,
		attribute.String("medicine.name", canonical),
		attribute.String("medicine.tier", string(tier)),
	)

	if s.history != nil {
		s.history.Track(userID, entities.SearchTypeMedicine, input, "")
	}

	key := medicineCacheKey(canonical)
	if info, ok := s.cached(ctx, key); ok {
		return info, nil
	}

	if info, err := s.describeWithProvider(ctx, canonical); err == nil {
		s.store(ctx, key, info)
		return info, nil
	} else if s.provider != nil {
		log.Warn().Err(err).Str("medicine", canonical).Msg("Medicine provider failed, using local data")
	}

	if info, ok := s.catalog.Lookup(canonical); ok {
		observability.RecordFallback(ctx, "medicine", entities.MedicineSourceCatalog)
		return info, nil
	}
	observability.RecordFallback(ctx, "medicine", entities.MedicineSourceGeneric)
	return genericMedicineInfo(canonical), nil
}

// Suggest returns catalog names containing input.
func (s *MedicineService) Suggest(input string, limit int) []string {
	return Suggest(input, s.catalog.Names(), limit)
}

// Names lists the catalog in display order.
func (s *MedicineService) Names() []string {
	return s.catalog.Names()
}

var errProviderUnavailable = errors.New("medicine provider unavailable")

func (s *MedicineService) describeWithProvider(ctx context.Context, name string) (*entities.MedicineInfo, error) {
	if s.provider == nil || s.providerDisabled.Load() {
		return nil, errProviderUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	start := time.Now()
	info, err := s.provider.DescribeMedicine(ctx, name)
	observability.RecordProviderCall(ctx, entities.MedicineSourceOpenAI, time.Since(start), err)
	if err != nil {
		if errors.Is(err, providers.ErrMedicineInfoUnauthorized) {
			if s.providerDisabled.CompareAndSwap(false, true) {
				log.Error().Err(err).Msg("Medicine provider rejected credentials; disabling it")
			}
		}
		return nil, err
	}
	if info == nil || strings.TrimSpace(info.Description) == "" {
		return nil, errors.New("medicine provider returned an empty description")
	}
	if info.Name == "" {
		info.Name = name
	}
	if info.Source == "" {
		info.Source = entities.MedicineSourceOpenAI
	}
	info.Trim()
	return info, nil
}

func (s *MedicineService) cached(ctx context.Context, key string) (*entities.MedicineInfo, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var info entities.MedicineInfo
	if err := json.Unmarshal(raw, &info); err != nil || info.Description == "" {
		return nil, false
	}
	return &info, true
}

func (s *MedicineService) store(ctx context.Context, key string, info *entities.MedicineInfo) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, int(s.cfg.CacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Medicine cache write failed")
	}
}

func medicineCacheKey(name string) string {
	return "medicine:v1:" + strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func genericMedicineInfo(name string) *entities.MedicineInfo {
	return &entities.MedicineInfo{
		Name: name,
		Description: fmt.Sprintf(
			"%s is a medicine we do not have detailed information for yet. Ask a pharmacist or doctor how it should be used.",
			name,
		),
		Uses:        []string{},
		SideEffects: []string{},
		Warnings: []string{
			"Only take it as prescribed or as directed on the package.",
			"Seek medical advice if symptoms persist or get worse.",
		},
		Source: entities.MedicineSourceGeneric,
	}
}
