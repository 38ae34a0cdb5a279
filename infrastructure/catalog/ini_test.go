package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

const shippedINI = "../../configs/goap_actions.ini"

func TestLoadPreconditionsINI_MatchesDefaults(t *testing.T) {
	t.Parallel()

	table, err := LoadPreconditionsINI(shippedINI)
	if err != nil {
		t.Fatalf("LoadPreconditionsINI() error = %v", err)
	}

	want := dungeon.DefaultPreconditions()
	if len(table) != len(want) {
		t.Fatalf("sections = %d, want %d", len(table), len(want))
	}
	for name, pre := range want {
		got := table.For(name)
		if len(got) != len(pre) {
			t.Errorf("%s: %d preconditions, want %d", name, len(got), len(pre))
			continue
		}
		for fact, req := range pre {
			if got[fact].String() != req.String() {
				t.Errorf("%s.%s = %s, want %s", name, fact, got[fact], req)
			}
		}
	}
}

func TestParsePreconditionsINI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "comparisons and literals",
			src:  "[Guard]\npreconditions = health=>30; threat=high; armed=true\n",
			want: map[string]string{"health": ">30", "threat": "high", "armed": "true"},
		},
		{
			name: "section without key is skipped",
			src:  "[Guard]\ncost = 3\n",
			want: nil,
		},
		{
			name: "semicolons are not comments",
			src:  "[Guard]\npreconditions = a=1; b=2\n",
			want: map[string]string{"a": "1", "b": "2"},
		},
		{
			name: "value continues on indented line",
			src:  "[Guard]\npreconditions = hasPotion=true;\n    health=<100\n",
			want: map[string]string{"hasPotion": "true", "health": "<100"},
		},
		{
			name: "inherits DEFAULT",
			src:  "[DEFAULT]\npreconditions = enemyNearby=true\n\n[Guard]\n",
			want: map[string]string{"enemyNearby": "true"},
		},
		{
			name: "own key overrides DEFAULT",
			src:  "[DEFAULT]\npreconditions = enemyNearby=true\n\n[Guard]\npreconditions = armed=true\n",
			want: map[string]string{"armed": "true"},
		},
		{
			name:    "bad bound on continuation line",
			src:     "[Guard]\npreconditions = armed=true;\n    health=<abc\n",
			wantErr: true,
		},
		{
			name:    "bad bound inherited from DEFAULT",
			src:     "[DEFAULT]\npreconditions = health=<abc\n\n[Guard]\n",
			wantErr: true,
		},
		{
			name:    "bad bound",
			src:     "[Guard]\npreconditions = health=<abc\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table, err := ParsePreconditionsINI([]byte(tt.src))
			if tt.wantErr {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("error = %v, want ParseError", err)
				}
				if pe.Section != "Guard" {
					t.Errorf("Section = %q", pe.Section)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}

			var got map[string]string
			if pre, ok := table["Guard"]; ok {
				got = make(map[string]string, len(pre))
				for fact, req := range pre {
					got[fact] = req.String()
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("preconditions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadPreconditionsINI_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadPreconditionsINI(filepath.Join(t.TempDir(), "nope.ini"))
	if !errors.Is(err, ErrCatalogNotFound) {
		t.Errorf("error = %v, want ErrCatalogNotFound", err)
	}
}

func TestLoad_INIBuildsDungeonCatalog(t *testing.T) {
	t.Parallel()

	b, err := Load(shippedINI)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(dungeon.ActionNames(), b.Actions.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	heal, _ := b.Actions.Lookup(dungeon.HealSelf)
	s := world.State{dungeon.FactHasPotion: world.Bool(true), dungeon.FactHealth: world.Int(40)}
	if !heal.IsApplicable(s) {
		t.Error("HealSelf should apply with a potion and low health")
	}
	if heal.IsApplicable(s.With(dungeon.FactHealth, world.Int(100))) {
		t.Error("HealSelf should not apply at full health")
	}
	if _, ok := heal.Preconditions()[dungeon.FactHealth]; !ok {
		t.Error("HealSelf lost its health precondition")
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	if _, err := Load("actions.toml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}
