package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"project-service/internal/service/cascade"
)

// tableDependent registers one table with the cascade coordinator. deleteSQL
// and countSQL take the project id as $1; tables keyed indirectly (checklist
// items via tasks, deployment records via environments) use subqueries.
type tableDependent struct {
	table     string
	deleteSQL string
	countSQL  string
}

func (d tableDependent) TableName() string { return d.table }

func (d tableDependent) DeleteByProjectID(ctx context.Context, tx pgx.Tx, projectID int64) (int64, error) {
	tag, err := tx.Exec(ctx, d.deleteSQL, projectID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (d tableDependent) CountByProjectID(ctx context.Context, tx pgx.Tx, projectID int64) (int64, error) {
	var count int64
	if err := tx.QueryRow(ctx, d.countSQL, projectID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func direct(table string) tableDependent {
	return tableDependent{
		table:     table,
		deleteSQL: fmt.Sprintf(`DELETE FROM %s WHERE project_id = $1`, table),
		countSQL:  fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE project_id = $1`, table),
	}
}

func viaTasks(table, column string) tableDependent {
	return tableDependent{
		table: table,
		deleteSQL: fmt.Sprintf(
			`DELETE FROM %s WHERE %s IN (SELECT id FROM tasks WHERE project_id = $1)`,
			table, column,
		),
		countSQL: fmt.Sprintf(
			`SELECT COUNT(*) FROM %s WHERE %s IN (SELECT id FROM tasks WHERE project_id = $1)`,
			table, column,
		),
	}
}

// CascadeDependents enumerates every dependent table of a project, children
// before parents so foreign keys never block the fan-out. Any new table
// storing a project id MUST be added here.
func CascadeDependents() []cascade.Dependent {
	return []cascade.Dependent{
		tableDependent{
			table: "deployment_records",
			deleteSQL: `DELETE FROM deployment_records
                WHERE environment_id IN (SELECT id FROM environments WHERE project_id = $1)`,
			countSQL: `SELECT COUNT(*) FROM deployment_records
                WHERE environment_id IN (SELECT id FROM environments WHERE project_id = $1)`,
		},
		direct("environments"),
		viaTasks("checklist_items", "task_id"),
		viaTasks("task_tags", "task_id"),
		viaTasks("task_comments", "task_id"),
		tableDependent{
			table: "task_dependencies",
			deleteSQL: `DELETE FROM task_dependencies
                WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)
                   OR depends_on_task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
			countSQL: `SELECT COUNT(*) FROM task_dependencies
                WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)
                   OR depends_on_task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
		},
		direct("tasks"),
		direct("columns"),
		direct("resources"),
		direct("tech_stack_items"),
		direct("bug_reports"),
		direct("uat_feedback"),
		direct("signoffs"),
		direct("phases"),
	}
}
