package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "season").
		From("fixtures").
		Where(Eq("season", "2019"), Expr("(home_team_id = ? OR away_team_id = ?)", 4, 4)).
		OrderBy("date DESC").
		Limit(100).
		Offset(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, season FROM fixtures WHERE season = $1 AND (home_team_id = $2 OR away_team_id = $3) ORDER BY date DESC LIMIT 100 OFFSET 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "2019" || args[1] != 4 || args[2] != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderRequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("name", "full_name").
		Values("Arsenal", "Arsenal FC").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (name, full_name) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Arsenal" || args[1] != "Arsenal FC" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRowArityMismatch(t *testing.T) {
	_, _, err := InsertInto("teams").
		Columns("name", "full_name").
		Values("Arsenal").
		ToSQL()
	if err == nil {
		t.Fatal("expected error for row arity mismatch")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("fixtures").
		Set("season", "2020").
		Set("home_stats_id", 7).
		Where(Eq("id", 1042)).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE fixtures SET season = $1, home_stats_id = $2 WHERE id = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "2020" || args[1] != 7 || args[2] != 1042 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInEmptyValuesNeverMatches(t *testing.T) {
	query, args, err := Select("id").
		From("teams").
		Where(In("id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM teams WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
