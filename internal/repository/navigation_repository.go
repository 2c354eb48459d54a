package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/thq-service/internal/domain"
)

// NavigationRepository answers role-to-endpoint permission questions from the
// navigation tables.
type NavigationRepository interface {
	// AllowedPaths lists the active path patterns granted to a role for an
	// HTTP method. Patterns use the router's ":param" segment syntax.
	AllowedPaths(ctx context.Context, method, role string) ([]string, error)
	// LinksForRole lists the active navigation links granted to a role, for
	// the client shell's menus.
	LinksForRole(ctx context.Context, role string) ([]domain.NavLink, error)
}

type navigationRepository struct {
	pool *pgxpool.Pool
}

// NewNavigationRepository returns a Postgres-backed implementation.
func NewNavigationRepository(pool *pgxpool.Pool) NavigationRepository {
	return &navigationRepository{pool: pool}
}

func (r *navigationRepository) AllowedPaths(ctx context.Context, method, role string) ([]string, error) {
	const query = `
        SELECT n.nav_path_name
        FROM navigation n
        JOIN navigation_roles nr ON nr.nr_link = n.nav_id
        WHERE n.nav_method = $1
          AND nr.nr_role_id = $2
          AND n.nav_active`

	rows, err := r.pool.Query(ctx, query, method, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

func (r *navigationRepository) LinksForRole(ctx context.Context, role string) ([]domain.NavLink, error) {
	const query = `
        SELECT n.nav_id, n.nav_inner_text, n.nav_href, n.nav_path_name,
               n.nav_query_string, n.nav_header, n.nav_menu, n.nav_method, n.nav_active
        FROM navigation n
        JOIN navigation_roles nr ON nr.nr_link = n.nav_id
        WHERE nr.nr_role_id = $1 AND n.nav_active
        ORDER BY n.nav_menu, n.nav_header, n.nav_inner_text`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.NavLink
	for rows.Next() {
		var link domain.NavLink
		if err := rows.Scan(
			&link.ID,
			&link.InnerText,
			&link.Href,
			&link.PathName,
			&link.QueryString,
			&link.Header,
			&link.Menu,
			&link.Method,
			&link.Active,
		); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
