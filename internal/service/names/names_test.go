package names

import (
	"testing"

	"github.com/octobees/contact-resolver/internal/entity"
)

func TestSegmentLocalPart(t *testing.T) {
	tests := map[string]struct {
		input     string
		wantFirst string
		wantLast  string
		wantOK    bool
	}{
		"concatenated pair": {
			input:     "kategymer",
			wantFirst: "Kate",
			wantLast:  "Gymer",
			wantOK:    true,
		},
		"single first name": {
			input:     "derek",
			wantFirst: "Derek",
			wantOK:    true,
		},
		"role word": {
			input:  "info",
			wantOK: false,
		},
		"role word support": {
			input:  "support",
			wantOK: false,
		},
		"digits stripped": {
			input:     "kate99gymer",
			wantFirst: "Kate",
			wantLast:  "Gymer",
			wantOK:    true,
		},
		"dotted local": {
			input:     "derek.smith",
			wantFirst: "Derek",
			wantLast:  "Smith",
			wantOK:    true,
		},
		"no dictionary prefix": {
			input:  "xqzvisitors",
			wantOK: false,
		},
		"too short": {
			input:  "k",
			wantOK: false,
		},
		"single letter remainder rejected": {
			input:  "dereks",
			wantOK: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			first, last, ok := SegmentLocalPart(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("SegmentLocalPart(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if first != tt.wantFirst || last != tt.wantLast {
				t.Fatalf("SegmentLocalPart(%q) = (%q, %q), want (%q, %q)", tt.input, first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestSegmentLocalPartPrefersLongestPrefix(t *testing.T) {
	// "christian" must win over "chris" + "tian" style accidental splits.
	first, last, ok := SegmentLocalPart("christian")
	if !ok || first != "Christian" || last != "" {
		t.Fatalf("expected (Christian, \"\"), got (%q, %q, %v)", first, last, ok)
	}
}

func TestParseOwnerName(t *testing.T) {
	tests := map[string]struct {
		input string
		want  ParsedName
	}{
		"plain pair": {
			input: "Derek Smith",
			want:  ParsedName{FirstName: "Derek", LastName: "Smith", Source: entity.NameSourceRegex},
		},
		"lowercase input title-cased": {
			input: "derek smith",
			want:  ParsedName{FirstName: "Derek", LastName: "Smith", Source: entity.NameSourceRegex},
		},
		"honorific stripped": {
			input: "Dr Jane Doe",
			want:  ParsedName{FirstName: "Jane", LastName: "Doe", Source: entity.NameSourceRegex},
		},
		"single first name": {
			input: "Maria",
			want:  ParsedName{FirstName: "Maria", Source: entity.NameSourceRegex},
		},
		"team suffix": {
			input: "CRO Info Team",
			want:  ParsedName{FirstName: "Cro Info Team", Source: entity.NameSourceTeam},
		},
		"digits rejected": {
			input: "Agent 007",
			want:  ParsedName{},
		},
		"role word rejected": {
			input: "Office Manager",
			want:  ParsedName{},
		},
		"all stopwords rejected": {
			input: "The Practice",
			want:  ParsedName{},
		},
		"shouty business name rejected": {
			input: "ACME DENTAL GROUP",
			want:  ParsedName{},
		},
		"empty input": {
			input: "  ",
			want:  ParsedName{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ParseOwnerName(tt.input)
			if got != tt.want {
				t.Fatalf("ParseOwnerName(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidFirstName(t *testing.T) {
	if !IsValidFirstName("Kate") {
		t.Fatalf("expected Kate to be a valid first name")
	}
	if !IsValidFirstName("Anne-Marie") {
		t.Fatalf("expected hyphenated name to be valid")
	}
	if IsValidFirstName("info") {
		t.Fatalf("expected role word to be rejected")
	}
	if IsValidFirstName("a") {
		t.Fatalf("expected single letter to be rejected")
	}
	if IsValidFirstName("k8") {
		t.Fatalf("expected digits to be rejected")
	}
}

func TestIsValidNamePair(t *testing.T) {
	if !IsValidNamePair("Kate", "Gymer") {
		t.Fatalf("expected valid pair")
	}
	if !IsValidNamePair("Sean", "O'Brien") {
		t.Fatalf("expected apostrophe surname to be valid")
	}
	if IsValidNamePair("Kate", "Team") {
		t.Fatalf("expected stopword surname to be rejected")
	}
	if IsValidNamePair("Sales", "Smith") {
		t.Fatalf("expected stopword first name to be rejected")
	}
}

func TestDictionaryCoversCommonNames(t *testing.T) {
	for _, name := range []string{"kate", "derek", "mohammed", "yuki", "olga"} {
		if !IsKnownFirstName(name) {
			t.Fatalf("expected %q in the first-name dictionary", name)
		}
	}
	if IsKnownFirstName("info") {
		t.Fatalf("role words must not be dictionary entries")
	}
	if DictionarySize() < 300 {
		t.Fatalf("dictionary unexpectedly small: %d entries", DictionarySize())
	}
}
