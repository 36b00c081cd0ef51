package corpus

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"corpus row", "['L194', 'L195', 'L196', 'L197']", []string{"L194", "L195", "L196", "L197"}},
		{"no spaces", "['L1','L2']", []string{"L1", "L2"}},
		{"double quotes", `["L1", "L2"]`, []string{"L1", "L2"}},
		{"mixed quotes", `['L1', "L2"]`, []string{"L1", "L2"}},
		{"order kept", "['L3', 'L1', 'L2']", []string{"L3", "L1", "L2"}},
		{"empty list", "[]", nil},
		{"empty list with space", "[ ]", nil},
		{"trailing comma", "['L1',]", []string{"L1"}},
		{"surrounding whitespace", "  ['L1']\t", []string{"L1"}},
		{"escaped quote", `['a\'b']`, []string{"a'b"}},
		{"escaped other quote", `["a\"b"]`, []string{`a"b`}},
		{"escaped backslash", `['a\\b']`, []string{`a\b`}},
		{"literal backslash", `['a\nb']`, []string{`a\nb`}},
		{"other quote inside", `['a"b']`, []string{`a"b`}},
		{"duplicate ids kept", "['L1', 'L1']", []string{"L1", "L1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDList(tt.input)
			if err != nil {
				t.Fatalf("ParseIDList(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIDList(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseIDList_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated unquoted", "[L1, L2"},
		{"unterminated list", "['L1', 'L2'"},
		{"unterminated after comma", "['L1',"},
		{"unterminated string", "['L1"},
		{"unquoted ids", "[L1, L2]"},
		{"missing comma", "['L1' 'L2']"},
		{"empty id", "['']"},
		{"double comma", "['L1',,'L2']"},
		{"only comma", "[,]"},
		{"trailing junk", "['L1'] x"},
		{"no brackets", "'L1', 'L2'"},
		{"empty input", ""},
		{"tuple syntax", "('L1', 'L2')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDList(tt.input)
			if err == nil {
				t.Fatalf("ParseIDList(%q) = %q, want error", tt.input, got)
			}
			if !errors.Is(err, ErrMalformedList) {
				t.Errorf("expected ErrMalformedList, got: %v", err)
			}
		})
	}
}
