package azure

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListTeamsArgs filter a team listing across the organization.
type ListTeamsArgs struct {
	Mine bool
	Top  int
	Skip int
}

// ListTeams lists the teams the authenticated user can see, or only the ones
// they are a member of when Mine is set.
func (c *Client) ListTeams(ctx context.Context, args ListTeamsArgs) ([]Team, error) {
	query := map[string]string{}
	if args.Mine {
		query["$mine"] = "true"
	}
	if args.Top > 0 {
		query["$top"] = strconv.Itoa(args.Top)
	}
	if args.Skip > 0 {
		query["$skip"] = strconv.Itoa(args.Skip)
	}

	var teams []Team
	if _, err := c.doList(ctx, newRequest("GET", teamsPath(), query, nil), &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListTeamMembers lists the members of one team in the scoped project.
func (c *Client) ListTeamMembers(ctx context.Context, scope Scope, team string) ([]TeamMember, error) {
	if err := scope.requireProject(); err != nil {
		return nil, err
	}
	if team == "" {
		return nil, validationError("team is required")
	}

	var members []TeamMember
	path := fmt.Sprintf("_apis/projects/%s/teams/%s/members",
		url.PathEscape(scope.Project), url.PathEscape(team))
	if _, err := c.doList(ctx, newRequest("GET", path, nil, nil), &members); err != nil {
		return nil, err
	}
	return members, nil
}
