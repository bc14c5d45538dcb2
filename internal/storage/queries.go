package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// CustosFrota is one row of the custos_frota table.
type CustosFrota struct {
	Mes       string
	GastoReal float64
	KmRodado  float64
}

const listCustosFrota = `-- name: ListCustosFrota :many
SELECT mes, gasto_real, km_rodado FROM custos_frota
`

func (q *Queries) ListCustosFrota(ctx context.Context) ([]CustosFrota, error) {
	rows, err := q.db.QueryContext(ctx, listCustosFrota)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CustosFrota
	for rows.Next() {
		var i CustosFrota
		if err := rows.Scan(&i.Mes, &i.GastoReal, &i.KmRodado); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countCustosFrota = `-- name: CountCustosFrota :one
SELECT COUNT(*) FROM custos_frota
`

func (q *Queries) CountCustosFrota(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countCustosFrota)
	var count int64
	err := row.Scan(&count)
	return count, err
}
