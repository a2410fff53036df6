package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDumpCapturesChainAndPostgresDetail(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "purchasables_sku_key", TableName: "purchasables", Message: "duplicate key"}
	err := Wrap(CodeConflict, fmt.Errorf("insert purchasable: %w", pgErr), "sku already exists")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %q", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected wrapped chain, got %v", d.Chain)
	}
	if d.PG == nil || d.PG.Constraint != "purchasables_sku_key" {
		t.Fatalf("expected postgres detail, got %+v", d.PG)
	}

	fields := d.Fields()
	if fields["pg_code"] != "23505" {
		t.Fatalf("expected pg_code field, got %v", fields["pg_code"])
	}
}

func TestDumpFieldsOmitPostgresKeysForPlainErrors(t *testing.T) {
	fields := Dump(New(CodeNotFound, "purchasable not found")).Fields()
	if _, ok := fields["pg_code"]; ok {
		t.Fatalf("did not expect pg fields: %v", fields)
	}
	if fields["error_code"] != CodeNotFound {
		t.Fatalf("unexpected error_code %v", fields["error_code"])
	}
	if (ErrorDump{}).PG != nil || Dump(nil).TopMessage != "" {
		t.Fatalf("expected empty dump for nil")
	}
}
