package report

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/rating"
	"github.com/xiebiao/bookcatalog/internal/domain/report"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const (
	tracerName    = "application/report"
	topAuthors    = 10
	monthlyWindow = 12
)

// Report 统计报表
type Report struct {
	Summary    report.Summary        `json:"summary"`
	ByGenre    []report.LabelCount   `json:"by_genre"`
	ByYear     []report.YearCount    `json:"by_year"`
	ByCategory []report.LabelCount   `json:"by_category"`
	TopAuthors []report.LabelCount   `json:"top_authors"`
	Monthly    []report.LabelCount   `json:"monthly"`
	TopRated   []rating.TopRatedBook `json:"top_rated"`
}

// GetReportUseCase 统计报表（只读）
type GetReportUseCase struct {
	reports report.Repository
	ratings rating.Service
	now     func() time.Time
}

// NewGetReportUseCase 创建统计报表用例
func NewGetReportUseCase(reports report.Repository, ratings rating.Service) *GetReportUseCase {
	return &GetReportUseCase{reports: reports, ratings: ratings, now: time.Now}
}

// Execute 依次查询各项统计，任一项失败即返回错误
func (uc *GetReportUseCase) Execute(ctx context.Context) (*Report, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetReport")
	defer span.End()

	rep, err := uc.build(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return rep, nil
}

func (uc *GetReportUseCase) build(ctx context.Context) (*Report, error) {
	var (
		rep Report
		err error
	)
	if rep.Summary, err = uc.reports.Summary(ctx); err != nil {
		return nil, err
	}
	if rep.ByGenre, err = uc.reports.ByGenre(ctx); err != nil {
		return nil, err
	}
	if rep.ByYear, err = uc.reports.ByYear(ctx); err != nil {
		return nil, err
	}
	if rep.ByCategory, err = uc.reports.ByCategory(ctx); err != nil {
		return nil, err
	}
	if rep.TopAuthors, err = uc.reports.TopAuthors(ctx, topAuthors); err != nil {
		return nil, err
	}

	now := uc.now()
	created, err := uc.reports.CreatedSince(ctx, report.MonthsStart(now, monthlyWindow))
	if err != nil {
		return nil, err
	}
	rep.Monthly = report.MonthlyBuckets(created, now, monthlyWindow)

	if rep.TopRated, err = uc.ratings.TopRated(ctx, rating.DefaultTopLimit); err != nil {
		return nil, err
	}
	if rep.TopRated == nil {
		rep.TopRated = []rating.TopRatedBook{}
	}
	return &rep, nil
}
