package db

import "testing"

func TestDialectPlaceholders(t *testing.T) {
	if got := Postgres.Placeholders(3); got != "$1, $2, $3" {
		t.Fatalf("postgres placeholders = %q", got)
	}
	if got := SQLite.Placeholders(3); got != "?, ?, ?" {
		t.Fatalf("sqlite placeholders = %q", got)
	}
}

func TestDialectFor(t *testing.T) {
	cases := map[string]Dialect{"pgx": Postgres, "postgres": Postgres, "sqlite": SQLite}
	for driver, want := range cases {
		got, err := DialectFor(driver)
		if err != nil || got != want {
			t.Fatalf("DialectFor(%q) = %q, %v", driver, got, err)
		}
	}
	if _, err := DialectFor("mysql"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
