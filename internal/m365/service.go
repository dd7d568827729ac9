package m365

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
)

const (
	mailboxReport  = "getMailboxUsageDetail(period='D7')"
	onedriveReport = "getOneDriveUsageAccountDetail(period='D7')"
)

// Repository defines the data access methods for usage snapshots
type Repository interface {
	// Upsert inserts or updates the row keyed by user_principal_name.
	Upsert(u *Usage) error
	GetAll() ([]*Usage, error)
}

// ReportFetcher is the Graph capability the sync needs.
type ReportFetcher interface {
	FetchReportCSV(ctx context.Context, report string) ([]byte, error)
}

type Service struct {
	repo    Repository
	fetcher ReportFetcher
	clock   clock.Clock
	logger  *slog.Logger
}

func NewService(repo Repository, fetcher ReportFetcher, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		fetcher: fetcher,
		clock:   clk,
		logger:  logger,
	}
}

// Sync pulls the 7-day mailbox and OneDrive reports and merges them into
// one row per user, keyed by lowercased principal name. Users present in
// only one report still get a row; re-running updates in place.
func (s *Service) Sync(ctx context.Context) (int, error) {
	mailboxCSV, err := s.fetcher.FetchReportCSV(ctx, mailboxReport)
	if err != nil {
		s.logger.Error("mailbox report fetch failed", "error", err)
		return 0, internal.NewNotificationError("could not fetch mailbox usage report", err)
	}
	onedriveCSV, err := s.fetcher.FetchReportCSV(ctx, onedriveReport)
	if err != nil {
		s.logger.Error("onedrive report fetch failed", "error", err)
		return 0, internal.NewNotificationError("could not fetch onedrive usage report", err)
	}

	mailboxRows, err := parseMailboxReport(mailboxCSV)
	if err != nil {
		return 0, err
	}
	onedriveRows, err := parseOneDriveReport(onedriveCSV)
	if err != nil {
		return 0, err
	}

	merged := s.merge(mailboxRows, onedriveRows)

	synced := 0
	for _, u := range merged {
		if err := s.repo.Upsert(u); err != nil {
			s.logger.Error("usage upsert failed", "error", err, "upn", u.UserPrincipalName)
			continue
		}
		synced++
	}

	s.logger.Info("m365 usage synced", "users", synced,
		"mailbox_rows", len(mailboxRows), "onedrive_rows", len(onedriveRows))
	return synced, nil
}

func (s *Service) merge(mailbox []mailboxRow, onedrive []onedriveRow) []*Usage {
	now := s.clock.Now()
	byUPN := make(map[string]*Usage)

	for _, row := range mailbox {
		upn := strings.ToLower(row.UserPrincipalName)
		byUPN[upn] = &Usage{
			UserPrincipalName: upn,
			DisplayName:       row.DisplayName,
			MailboxUsedMB:     row.UsedMB,
			MailboxQuotaMB:    row.QuotaMB,
			LastActivityDate:  row.LastActivityDate,
			ReportDate:        now,
		}
	}

	for _, row := range onedrive {
		upn := strings.ToLower(row.OwnerPrincipalName)
		u, exists := byUPN[upn]
		if !exists {
			u = &Usage{
				UserPrincipalName: upn,
				DisplayName:       row.OwnerDisplayName,
				ReportDate:        now,
			}
			byUPN[upn] = u
		}
		u.OneDriveUsedMB = row.UsedMB
		u.OneDriveTotalMB = row.TotalMB
		if u.DisplayName == "" {
			u.DisplayName = row.OwnerDisplayName
		}
	}

	out := make([]*Usage, 0, len(byUPN))
	for _, u := range byUPN {
		out = append(out, u)
	}
	return out
}

func (s *Service) GetUsage() ([]*Usage, error) {
	return s.repo.GetAll()
}
