package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sprintlens/sprintlens/pkg/types"
)

// sprintPageSize is the page size requested from the tracker when
// listing sprints. A short page terminates pagination.
const sprintPageSize = 50

// Tracker is the issue-tracker surface the analyzer consumes. Sprints
// returns a single page; the analyzer owns the pagination loop.
type Tracker interface {
	Boards(ctx context.Context, project string) ([]types.Board, error)
	Sprints(ctx context.Context, boardID, startAt, maxResults int) ([]types.Sprint, error)
	SearchIssues(ctx context.Context, jql string) ([]types.Issue, error)
	Changelog(ctx context.Context, issueKey string) ([]types.ChangelogEntry, error)
}

// CodeHost reports code activity for a time window
type CodeHost interface {
	MergedPullRequests(ctx context.Context, from, to time.Time) (int, error)
}

// Analyzer walks a project's boards and sprints and assembles the
// analysis result tree. All collaborators are injected; the zero
// configuration analyzes tracker data only.
type Analyzer struct {
	tracker  Tracker
	codeHost CodeHost
	logger   *zap.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithCodeHost attaches a code-hosting collaborator whose merged
// pull-request counts enrich each sprint result
func WithCodeHost(host CodeHost) Option {
	return func(a *Analyzer) {
		a.codeHost = host
	}
}

// WithLogger replaces the default no-op logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// New creates an Analyzer around the given tracker
func New(tracker Tracker, opts ...Option) *Analyzer {
	a := &Analyzer{
		tracker: tracker,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeProject analyzes every allow-listed scrum board of a project
// and rolls the results up into a ProjectResult. The filter is
// validated before any data is fetched and a validation failure is the
// only error returned; data-plane failures degrade the result and are
// recorded in Problems instead.
func (a *Analyzer) AnalyzeProject(ctx context.Context, project string, scrumBoardIDs []int, filter types.SprintFilter) (types.ProjectResult, error) {
	if err := filter.Validate(); err != nil {
		return types.ProjectResult{}, fmt.Errorf("invalid sprint filter: %w", err)
	}

	result := types.ProjectResult{Project: project, Filter: filter}

	a.logger.Info("analyzing project",
		zap.String("project", project),
		zap.Ints("scrum_boards", scrumBoardIDs))

	boards, err := a.tracker.Boards(ctx, project)
	if err != nil {
		a.logger.Error("failed to list boards",
			zap.String("project", project),
			zap.Error(err))
		result.Problems = append(result.Problems, problem("boards", project, err))
		return result, nil
	}

	var resolvedBugs []types.Issue
	for _, board := range selectScrumBoards(boards, scrumBoardIDs) {
		boardResult, boardBugs, err := a.analyzeBoard(ctx, project, board, filter, &result.Problems)
		if err != nil {
			a.logger.Error("failed to analyze board",
				zap.Int("board_id", board.ID),
				zap.String("board", board.Name),
				zap.Error(err))
			result.Problems = append(result.Problems, problem("board", board.Name, err))
			continue
		}
		result.Boards = append(result.Boards, boardResult)
		result.TotalIssues += boardResult.TotalIssues
		resolvedBugs = append(resolvedBugs, boardBugs...)
	}

	// The roll-up runs over the concatenation of every sprint's
	// resolved-bug set so that large sprints weigh proportionally.
	result.TotalResolution = CalculateResolutionMetrics(resolvedBugs)

	a.logger.Info("project analysis complete",
		zap.String("project", project),
		zap.Int("boards", len(result.Boards)),
		zap.Int("total_issues", result.TotalIssues),
		zap.Int("problems", len(result.Problems)))
	return result, nil
}

// analyzeBoard lists and filters the board's sprints and analyzes the
// survivors. The returned issues are the raw resolved bugs of every
// analyzed sprint, kept for the project-level roll-up.
func (a *Analyzer) analyzeBoard(ctx context.Context, project string, board types.Board, filter types.SprintFilter, problems *[]types.Problem) (types.BoardResult, []types.Issue, error) {
	result := types.BoardResult{Board: board}

	sprints, err := a.fetchSprints(ctx, board.ID)
	if err != nil {
		return result, nil, fmt.Errorf("failed to list sprints: %w", err)
	}

	kept, filterProblems := SelectSprints(sprints, filter)
	*problems = append(*problems, filterProblems...)

	a.logger.Debug("sprints selected",
		zap.Int("board_id", board.ID),
		zap.Int("fetched", len(sprints)),
		zap.Int("kept", len(kept)))

	var boardBugs []types.Issue
	for _, sprint := range kept {
		sprintResult, sprintBugs, err := a.analyzeSprint(ctx, project, sprint, problems)
		if err != nil {
			a.logger.Error("failed to analyze sprint",
				zap.Int("sprint_id", sprint.ID),
				zap.String("sprint", sprint.Name),
				zap.Error(err))
			*problems = append(*problems, problem("sprint", sprint.Name, err))
			continue
		}
		result.Sprints = append(result.Sprints, sprintResult)
		result.TotalIssues += sprintResult.IssueCount
		boardBugs = append(boardBugs, sprintBugs...)
	}
	return result, boardBugs, nil
}

// fetchSprints pages through the board's sprints until a short page
func (a *Analyzer) fetchSprints(ctx context.Context, boardID int) ([]types.Sprint, error) {
	var all []types.Sprint
	for startAt := 0; ; startAt += sprintPageSize {
		page, err := a.tracker.Sprints(ctx, boardID, startAt, sprintPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < sprintPageSize {
			return all, nil
		}
	}
}

// analyzeSprint computes the sprint's metrics over its resolved bugs
// and its status durations over every sprint issue's changelog
func (a *Analyzer) analyzeSprint(ctx context.Context, project string, sprint types.Sprint, problems *[]types.Problem) (types.SprintResult, []types.Issue, error) {
	a.logger.Debug("analyzing sprint",
		zap.Int("sprint_id", sprint.ID),
		zap.String("sprint", sprint.Name))

	bugs, err := a.tracker.SearchIssues(ctx, ResolvedBugsJQL(project, sprint.ID))
	if err != nil {
		return types.SprintResult{}, nil, fmt.Errorf("failed to search resolved bugs: %w", err)
	}
	issues, err := a.tracker.SearchIssues(ctx, SprintIssuesJQL(project, sprint.ID))
	if err != nil {
		return types.SprintResult{}, nil, fmt.Errorf("failed to search sprint issues: %w", err)
	}

	summaries := make([]types.IssueSummary, 0, len(bugs))
	for _, bug := range bugs {
		summaries = append(summaries, SummarizeIssue(bug))
	}

	result := types.SprintResult{
		Sprint:          sprint,
		Issues:          summaries,
		IssueCount:      len(bugs),
		Metrics:         SprintDetailedMetrics(bugs),
		StatusDurations: a.averageStatusDurations(ctx, issues, sprint.Window(), problems),
	}

	if a.codeHost != nil && sprint.EndDate != nil {
		merged, err := a.codeHost.MergedPullRequests(ctx, sprint.StartDate, *sprint.EndDate)
		if err != nil {
			a.logger.Warn("failed to count merged pull requests",
				zap.Int("sprint_id", sprint.ID),
				zap.Error(err))
			*problems = append(*problems, problem("code-activity", sprint.Name, err))
		} else {
			result.MergedPRs = &merged
		}
	}
	return result, bugs, nil
}

// averageStatusDurations runs the transition processor over each
// issue's changelog, tolerating per-issue retrieval failures
func (a *Analyzer) averageStatusDurations(ctx context.Context, issues []types.Issue, window types.Window, problems *[]types.Problem) map[string]time.Duration {
	perIssue := make([]map[string]time.Duration, 0, len(issues))
	for _, issue := range issues {
		entries, err := a.tracker.Changelog(ctx, issue.Key)
		if err != nil {
			a.logger.Warn("failed to fetch changelog",
				zap.String("issue", issue.Key),
				zap.Error(err))
			*problems = append(*problems, problem("changelog", issue.Key, err))
			continue
		}
		perIssue = append(perIssue, StatusDurations(entries, window))
	}
	return AverageStatusDurations(perIssue)
}

// ResolvedBugsJQL selects the bugs a sprint closed out
func ResolvedBugsJQL(project string, sprintID int) string {
	return fmt.Sprintf("project = %s AND sprint = %d AND type = Bug AND status = Done", project, sprintID)
}

// SprintIssuesJQL selects every issue assigned to a sprint
func SprintIssuesJQL(project string, sprintID int) string {
	return fmt.Sprintf("project = %s AND sprint = %d", project, sprintID)
}

// selectScrumBoards restricts boards to the configured allow-list,
// preserving tracker order
func selectScrumBoards(boards []types.Board, ids []int) []types.Board {
	allowed := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	selected := make([]types.Board, 0, len(ids))
	for _, board := range boards {
		if _, ok := allowed[board.ID]; ok {
			selected = append(selected, board)
		}
	}
	return selected
}

func problem(stage, ref string, err error) types.Problem {
	return types.Problem{Stage: stage, Ref: ref, Message: err.Error()}
}
