package ranking

import (
	"context"
	"time"

	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

type RankingService interface {
	GetPlatformRanking(ctx context.Context, month string) (*domain.PlatformRankingResponse, error)
}

type PlatformRankingService struct {
	PlatformRankingRepository repository.PlatformRankingRepository
}

func NewPlatformRankingService(platformRankingRepository repository.PlatformRankingRepository) RankingService {
	return &PlatformRankingService{
		PlatformRankingRepository: platformRankingRepository,
	}
}

// GetPlatformRanking devolve o snapshot do mês (yyyy-mm); mês vazio usa o mês de ontem
func (s *PlatformRankingService) GetPlatformRanking(ctx context.Context, month string) (*domain.PlatformRankingResponse, error) {
	if month == "" {
		month = time.Now().AddDate(0, 0, -1).Format("2006-01")
	}

	ranking, err := s.PlatformRankingRepository.GetPlatformRanking(ctx, month)
	if err != nil {
		return nil, err
	}
	return ranking, nil
}
