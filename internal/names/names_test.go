package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "first last",
			in:   "Jane Doe",
			want: []string{"doe jane", "jane doe"},
		},
		{
			name: "long last name emitted bare",
			in:   "John Smith",
			want: []string{"john smith", "smith", "smith john"},
		},
		{
			name: "middle name dropped and initialed",
			in:   "Mary Ann Johnson",
			want: []string{"johnson", "johnson mary", "mary a johnson", "mary ann johnson", "mary johnson"},
		},
		{
			name: "suffix stripped",
			in:   "Robert Brown Jr.",
			want: []string{"brown", "brown robert", "robert brown"},
		},
		{
			name: "last comma first",
			in:   "SMITH, JOHN",
			want: []string{"john smith", "smith", "smith john"},
		},
		{
			name: "hyphenated last name",
			in:   "Ana Garcia-Lopez",
			want: []string{"ana g lopez", "ana garcia lopez", "ana lopez", "garcia lopez", "garcialopez", "lopez", "lopez ana"},
		},
		{
			name: "short hyphenated token ignored",
			in:   "Li Wu-Ng",
			want: []string{"li ng", "li w ng", "li wu ng", "ng li"},
		},
		{
			name: "single token",
			in:   "Cher",
			want: []string{"cher"},
		},
		{
			name: "only suffix",
			in:   "Jr.",
			want: []string{},
		},
		{
			name: "empty",
			in:   "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Variants(tt.in))
		})
	}
}

func TestCustomSuffixes(t *testing.T) {
	n := NewNormalizer([]string{"dc"})

	assert.Equal(t, []string{"alan ford", "ford", "ford alan"}, n.Variants("Alan Ford DC"))
	assert.Contains(t, n.Variants("Alan Ford Jr"), "alan ford jr")
}

func TestLastName(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, "smith", n.LastName("John Smith III"))
	assert.Equal(t, "doe", n.LastName("DOE, JANE"))
	assert.Equal(t, "", n.LastName("  "))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "JOHN SMITH", Key("  john   Smith "))
	assert.Equal(t, Key("JOHN SMITH"), Key("John Smith"))
	assert.Equal(t, "", Key(""))
}
