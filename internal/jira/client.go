package jira

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/sprintlens/sprintlens/pkg/types"
)

const changelogPageSize = 100

// timeLayout is the Jira REST timestamp format: RFC3339 with
// millisecond precision and a colonless zone offset
const timeLayout = "2006-01-02T15:04:05.999-0700"

// issueSearchFields limits search payloads to the fields the analysis
// reads
var issueSearchFields = []string{"summary", "priority", "status", "issuetype", "created", "updated"}

// Client wraps the Jira REST and Agile APIs behind the analyzer's
// tracker contract. Raw payloads are converted to domain values here,
// exactly once; records that cannot be converted are skipped with a
// warning instead of failing the call.
type Client struct {
	client *jira.Client
	logger *zap.Logger
}

// NewClient creates a new Jira client authenticated with basic auth
// (username plus API token)
func NewClient(baseURL, username, apiToken string, logger *zap.Logger) (*Client, error) {
	tp := jira.BasicAuthTransport{
		Username: username,
		Password: apiToken,
	}

	client, err := jira.NewClient(tp.Client(), baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Boards lists every board attached to a project
func (c *Client) Boards(ctx context.Context, project string) ([]types.Board, error) {
	opts := &jira.BoardListOptions{ProjectKeyOrID: project}

	var boards []types.Board
	for {
		list, _, err := c.client.Board.GetAllBoardsWithContext(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list boards for project %s: %w", project, err)
		}
		for _, board := range list.Values {
			boards = append(boards, types.Board{
				ID:   board.ID,
				Name: board.Name,
				Type: board.Type,
			})
		}
		if list.IsLast || len(list.Values) == 0 {
			return boards, nil
		}
		opts.StartAt += len(list.Values)
	}
}

// sprintPage mirrors the Agile API sprint-list envelope. The library's
// sprint type drops the goal field, so the endpoint is called raw.
type sprintPage struct {
	MaxResults int         `json:"maxResults"`
	StartAt    int         `json:"startAt"`
	IsLast     bool        `json:"isLast"`
	Values     []rawSprint `json:"values"`
}

type rawSprint struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	State         string     `json:"state"`
	Goal          string     `json:"goal"`
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	CompleteDate  *time.Time `json:"completeDate"`
	OriginBoardID int        `json:"originBoardId"`
}

// Sprints returns one page of a board's sprints. Callers own the
// pagination loop; a page shorter than maxResults is the last one.
func (c *Client) Sprints(ctx context.Context, boardID, startAt, maxResults int) ([]types.Sprint, error) {
	u := fmt.Sprintf("rest/agile/1.0/board/%d/sprint?startAt=%d&maxResults=%d", boardID, startAt, maxResults)
	req, err := c.client.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sprint request: %w", err)
	}

	page := new(sprintPage)
	if _, err := c.client.Do(req, page); err != nil {
		return nil, fmt.Errorf("failed to list sprints for board %d: %w", boardID, err)
	}

	sprints := make([]types.Sprint, 0, len(page.Values))
	for _, raw := range page.Values {
		sprints = append(sprints, convertSprint(raw))
	}
	return sprints, nil
}

// SearchIssues runs a JQL search and returns every matching issue,
// following the search pagination internally
func (c *Client) SearchIssues(ctx context.Context, jql string) ([]types.Issue, error) {
	opts := &jira.SearchOptions{Fields: issueSearchFields}

	var issues []types.Issue
	err := c.client.Issue.SearchPagesWithContext(ctx, jql, opts, func(issue jira.Issue) error {
		converted, err := convertIssue(issue)
		if err != nil {
			c.logger.Warn("skipping unconvertible issue", zap.Error(err), zap.String("issue", issue.Key))
			return nil
		}
		issues = append(issues, converted)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	return issues, nil
}

// changelogPage mirrors the paginated changelog envelope. The library
// only exposes the changelog through issue expansion, which truncates
// long histories, so the endpoint is called raw.
type changelogPage struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	IsLast     bool           `json:"isLast"`
	Values     []rawChangelog `json:"values"`
}

type rawChangelog struct {
	ID      string           `json:"id"`
	Author  jira.User        `json:"author"`
	Created string           `json:"created"`
	Items   []rawHistoryItem `json:"items"`
}

type rawHistoryItem struct {
	Field      string      `json:"field"`
	FieldID    string      `json:"fieldId"`
	From       interface{} `json:"from"`
	FromString string      `json:"fromString"`
	To         interface{} `json:"to"`
	ToString   string      `json:"toString"`
}

// Changelog fetches the complete change history of an issue
func (c *Client) Changelog(ctx context.Context, issueKey string) ([]types.ChangelogEntry, error) {
	var entries []types.ChangelogEntry
	for startAt := 0; ; {
		u := fmt.Sprintf("rest/api/2/issue/%s/changelog?startAt=%d&maxResults=%d", issueKey, startAt, changelogPageSize)
		req, err := c.client.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build changelog request: %w", err)
		}

		page := new(changelogPage)
		if _, err := c.client.Do(req, page); err != nil {
			return nil, fmt.Errorf("failed to fetch changelog for %s: %w", issueKey, err)
		}

		for _, raw := range page.Values {
			entry, err := convertChangelog(raw)
			if err != nil {
				c.logger.Warn("skipping unconvertible changelog entry",
					zap.Error(err),
					zap.String("issue", issueKey),
					zap.String("entry", raw.ID))
				continue
			}
			entries = append(entries, entry)
		}

		startAt += len(page.Values)
		if page.IsLast || len(page.Values) == 0 {
			return entries, nil
		}
	}
}

// convertSprint maps an Agile API sprint onto the domain type
func convertSprint(raw rawSprint) types.Sprint {
	sprint := types.Sprint{
		ID:            raw.ID,
		Name:          raw.Name,
		State:         raw.State,
		Goal:          raw.Goal,
		EndDate:       copyTime(raw.EndDate),
		CompleteDate:  copyTime(raw.CompleteDate),
		OriginBoardID: raw.OriginBoardID,
	}
	if raw.StartDate != nil {
		sprint.StartDate = *raw.StartDate
	}
	return sprint
}

// convertIssue maps a search result onto the domain type
func convertIssue(issue jira.Issue) (types.Issue, error) {
	if issue.Fields == nil {
		return types.Issue{}, fmt.Errorf("issue %s has no fields", issue.Key)
	}

	converted := types.Issue{
		ID:      issue.ID,
		Key:     issue.Key,
		Summary: issue.Fields.Summary,
		Type:    issue.Fields.Type.Name,
		Created: time.Time(issue.Fields.Created),
		Updated: time.Time(issue.Fields.Updated),
	}
	if issue.Fields.Status != nil {
		converted.Status = issue.Fields.Status.Name
	}
	if issue.Fields.Priority != nil {
		converted.Priority = issue.Fields.Priority.Name
	}
	return converted, nil
}

// convertChangelog maps a changelog record onto the domain type. The
// entry timestamp is required; items keep both the raw values and the
// readable names.
func convertChangelog(raw rawChangelog) (types.ChangelogEntry, error) {
	created, err := time.Parse(timeLayout, raw.Created)
	if err != nil {
		return types.ChangelogEntry{}, fmt.Errorf("unparsable created timestamp %q: %w", raw.Created, err)
	}

	entry := types.ChangelogEntry{
		ID:      raw.ID,
		Author:  raw.Author.DisplayName,
		Created: created,
		Items:   make([]types.ChangelogItem, 0, len(raw.Items)),
	}
	for _, item := range raw.Items {
		entry.Items = append(entry.Items, types.ChangelogItem{
			Field:    item.Field,
			FieldID:  item.FieldID,
			From:     stringValue(item.From),
			FromText: item.FromString,
			To:       stringValue(item.To),
			ToText:   item.ToString,
		})
	}
	return entry, nil
}

// stringValue narrows a raw changelog value, which Jira serializes as
// string, number or null depending on the field
func stringValue(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return fmt.Sprintf("%.0f", value)
	default:
		return ""
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
