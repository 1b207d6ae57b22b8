package models

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input   string
		want    Money
		wantErr bool
	}{
		{"100.00", 10000, false},
		{"33.33", 3333, false},
		{"0.5", 50, false},
		{"12", 1200, false},
		{"0.05", 5, false},
		{" 2.50 ", 250, false},
		{"", 0, true},
		{"-1.00", 0, true},
		{"1.234", 0, true},
		{"1.", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMoney(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMoney(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyDivRoundsHalfUp(t *testing.T) {
	tests := []struct {
		name string
		m    Money
		n    int
		want Money
	}{
		{"exact", 10000, 4, 2500},
		{"truncates below half", 10000, 3, 3333}, // 33.333... -> 33.33
		{"half rounds up", 50, 4, 13},            // 12.5 cents -> 13
		{"half rounds up again", 30, 4, 8},       // 7.5 cents -> 8
		{"above half rounds up", 200, 3, 67},     // 66.67 cents -> 67
		{"single part", 1275, 1, 1275},
		{"zero", 0, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Div(tt.n); got != tt.want {
				t.Errorf("Money(%d).Div(%d) = %d, want %d", tt.m, tt.n, got, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{2500, "25.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{0, "0.00"},
	}

	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("Money(%d).String() = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(Money(3333))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"33.33"` {
		t.Errorf("Marshal = %s, want \"33.33\"", data)
	}

	var m Money
	if err := json.Unmarshal([]byte(`"40.00"`), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m != 4000 {
		t.Errorf("Unmarshal = %d, want 4000", m)
	}

	if err := json.Unmarshal([]byte(`"-5.00"`), &m); err == nil {
		t.Error("negative amount accepted")
	}
}
