package sidecache

import "testing"

func TestKindPath(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		want string
	}{
		{
			kind: Parameter,
			name: "/my/path/param",
			want: "/systemsmanager/parameters/get/?name=%2Fmy%2Fpath%2Fparam&withDecryption=true",
		},
		{
			kind: Secret,
			name: "db-pass",
			want: "/secretsmanager/get?secretId=db-pass&withDecryption=true",
		},
		{
			kind: Secret,
			name: "app/db-pass",
			want: "/secretsmanager/get?secretId=app%2Fdb-pass&withDecryption=true",
		},
	}
	for _, tt := range tests {
		if got := tt.kind.Path(tt.name); got != tt.want {
			t.Errorf("%v.Path(%q) = %q, want %q", tt.kind, tt.name, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if Parameter.String() != "parameter" || Secret.String() != "secret" {
		t.Fatalf("kind strings: %q, %q", Parameter, Secret)
	}
	if Kind(9).String() != "unknown" {
		t.Fatalf("out-of-range kind: %q", Kind(9))
	}
}

func TestKindDecode(t *testing.T) {
	if _, ok := Secret.decode(nil); ok {
		t.Fatal("nil payload decoded")
	}
	if _, ok := Secret.decode(&Payload{}); ok {
		t.Fatal("empty payload decoded as secret")
	}
	if v, ok := Secret.decode(secretPayload("x")); !ok || v != "x" {
		t.Fatalf("secret decode: %q %v", v, ok)
	}
	if _, ok := Parameter.decode(secretPayload("x")); ok {
		t.Fatal("secret payload decoded as parameter")
	}
	if v, ok := Parameter.decode(paramPayload("y")); !ok || v != "y" {
		t.Fatalf("parameter decode: %q %v", v, ok)
	}
}
