package input

import "testing"

func TestActionNamespace(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"edit.undo", "edit"},
		{"arrange.moveToTop", "arrange"},
		{"quit", "quit"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := (Action{Name: tt.name}).Namespace(); got != tt.want {
			t.Errorf("Namespace(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWithArgDoesNotShareMap(t *testing.T) {
	base := Action{Name: "edit.paste"}.WithArg("a", 1)
	derived := base.WithArg("b", true)

	if _, ok := base.Args.Get("b"); ok {
		t.Error("WithArg mutated the original action")
	}
	if derived.Args.GetInt("a") != 1 || !derived.Args.GetBool("b") {
		t.Errorf("derived args = %v", derived.Args.Extra)
	}
}

func TestActionArgsTypedGetters(t *testing.T) {
	args := ActionArgs{Extra: map[string]any{
		"s":   "text",
		"i":   int64(3),
		"f":   float64(4),
		"b":   true,
		"bad": []int{1},
	}}

	if args.GetString("s") != "text" {
		t.Error("GetString")
	}
	if args.GetInt("i") != 3 || args.GetInt("f") != 4 || args.GetInt("bad") != 0 {
		t.Error("GetInt")
	}
	if !args.GetBool("b") || args.GetBool("s") {
		t.Error("GetBool")
	}
	if _, ok := (ActionArgs{}).Get("x"); ok {
		t.Error("Get on nil Extra should report missing")
	}
}

func TestActionSourceString(t *testing.T) {
	if SourceInteractive.String() != "interactive" || ActionSource(99).String() != "unknown" {
		t.Error("unexpected ActionSource strings")
	}
}
