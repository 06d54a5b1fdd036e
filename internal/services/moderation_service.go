package services

import (
	"context"
	"strings"
	"time"

	"localspot/internal/utils"
	"localspot/pkg/logger"
)

// ModerationResult is the admission decision for a piece of review text.
type ModerationResult struct {
	Flagged bool     `json:"flagged"`
	Score   float64  `json:"score"`
	Flags   []string `json:"flags,omitempty"`
}

// ContentScanner finds objectionable terms in text. Implementations may be
// backed by a local denylist or an external classifier.
type ContentScanner interface {
	Scan(ctx context.Context, text string) ([]string, error)
}

type ModerationService interface {
	Evaluate(ctx context.Context, text string) *ModerationResult
}

type moderationService struct {
	scanner ContentScanner
	timeout time.Duration
	logger  *logger.Logger
}

// NewModerationService wraps a scanner with the admission policy. A zero
// timeout disables the per-call deadline.
func NewModerationService(scanner ContentScanner, timeout time.Duration, log *logger.Logger) ModerationService {
	return &moderationService{
		scanner: scanner,
		timeout: timeout,
		logger:  log,
	}
}

// Evaluate scores text against the scanner. The gate fails closed: if the
// scan mechanism itself errors, the text is flagged and held rather than
// silently approved.
func (s *moderationService) Evaluate(ctx context.Context, text string) *ModerationResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	matches, err := s.scanner.Scan(ctx, text)
	if err != nil {
		s.logger.WithError(err).Error("Moderation scan failed, holding content")
		return &ModerationResult{
			Flagged: true,
			Score:   utils.ModerationScoreScanFailure,
			Flags:   []string{utils.ModerationScanErrorFlag},
		}
	}

	if len(matches) > 0 {
		return &ModerationResult{
			Flagged: true,
			Score:   utils.ModerationScoreFlagged,
			Flags:   matches,
		}
	}

	return &ModerationResult{
		Flagged: false,
		Score:   utils.ModerationScoreClean,
	}
}

// TermListScanner is the baseline denylist scanner: a case-insensitive
// substring scan over a configured term list.
type TermListScanner struct {
	terms []string
}

func NewTermListScanner(terms []string) *TermListScanner {
	cleaned := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			cleaned = append(cleaned, term)
		}
	}
	return &TermListScanner{terms: cleaned}
}

func (s *TermListScanner) Scan(_ context.Context, text string) ([]string, error) {
	lowerText := strings.ToLower(text)

	var matches []string
	for _, term := range s.terms {
		if strings.Contains(lowerText, term) {
			matches = append(matches, term)
		}
	}

	return matches, nil
}
