package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	t.Run("Should create valid version from string", func(t *testing.T) {
		version, err := ParseVersion("1.2.3")
		require.NoError(t, err)
		assert.NotNil(t, version)
		assert.Equal(t, "1.2.3", version.String())
	})
	t.Run("Should accept zero components", func(t *testing.T) {
		version, err := ParseVersion("0.0.0")
		require.NoError(t, err)
		assert.Equal(t, "0.0.0", version.String())
	})
	t.Run("Should reject malformed input", func(t *testing.T) {
		for _, text := range []string{
			"", "invalid", "v1.2", "v1.2.3", "1.2", "1.2.3.4", "1.2.x",
			"01.2.3", "1.02.3", "1.2.03", "1.2.3-alpha", "1.2.3+build", " 1.2.3", "-1.2.3",
		} {
			version, err := ParseVersion(text)
			assert.ErrorIs(t, err, ErrMalformedVersion, "input %q", text)
			assert.Nil(t, version, "input %q", text)
		}
	})
}

func TestParseTag(t *testing.T) {
	t.Run("Should strip configured prefix", func(t *testing.T) {
		version, err := ParseTag("v1.2.3", "v")
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", version.String())
		assert.Equal(t, "v1.2.3", version.Tag("v"))
	})
	t.Run("Should reject tag without the prefix", func(t *testing.T) {
		_, err := ParseTag("1.2.3", "v")
		assert.ErrorIs(t, err, ErrMalformedVersion)
	})
	t.Run("Should reject prefixed tag when no prefix is configured", func(t *testing.T) {
		_, err := ParseTag("v1.2.3", "")
		assert.ErrorIs(t, err, ErrMalformedVersion)
	})
}

func TestVersion_Bump(t *testing.T) {
	cases := []struct {
		in   string
		kind BumpKind
		want string
	}{
		{"0.0.0", BumpPatch, "0.0.1"},
		{"1.9.9", BumpMinor, "1.10.0"},
		{"2.3.4", BumpMajor, "3.0.0"},
		{"1.5.8", BumpMajor, "2.0.0"},
		{"1.2.5", BumpMinor, "1.3.0"},
		{"2.5.0", BumpPatch, "2.5.1"},
	}
	for _, tc := range cases {
		t.Run("Should bump "+tc.in+" by "+tc.kind.String(), func(t *testing.T) {
			version, err := ParseVersion(tc.in)
			require.NoError(t, err)
			bumped := version.Bump(tc.kind)
			assert.Equal(t, tc.want, bumped.String())
			assert.Equal(t, tc.in, version.String(), "receiver must not change")
		})
	}
	t.Run("Should bump patch for an unknown kind", func(t *testing.T) {
		version, err := ParseVersion("1.2.3")
		require.NoError(t, err)
		assert.Equal(t, "1.2.4", version.Bump(BumpKind(0)).String())
		assert.Equal(t, "1.2.4", version.Bump(BumpKind(42)).String())
	})
}

func TestVersion_Compare(t *testing.T) {
	t.Run("Should compare versions correctly", func(t *testing.T) {
		v1, err := ParseVersion("1.2.3")
		require.NoError(t, err)
		v2, err := ParseVersion("1.2.4")
		require.NoError(t, err)
		v3, err := ParseVersion("1.2.3")
		require.NoError(t, err)
		assert.Equal(t, Less, v1.Compare(v2))
		assert.Equal(t, Greater, v2.Compare(v1))
		assert.Equal(t, Equal, v1.Compare(v3))
		assert.True(t, v1.Equal(v3))
	})
	t.Run("Should compare numerically rather than as strings", func(t *testing.T) {
		v1, err := ParseVersion("1.10.0")
		require.NoError(t, err)
		v2, err := ParseVersion("1.9.9")
		require.NoError(t, err)
		assert.Equal(t, Greater, v1.Compare(v2))
	})
	t.Run("Should handle major version differences", func(t *testing.T) {
		v1, err := ParseVersion("1.99.99")
		require.NoError(t, err)
		v2, err := ParseVersion("2.0.0")
		require.NoError(t, err)
		assert.Equal(t, Less, v1.Compare(v2))
		assert.Equal(t, "LESS", v1.Compare(v2).String())
	})
}

func TestLatestVersion(t *testing.T) {
	t.Run("Should pick the numeric maximum", func(t *testing.T) {
		latest, skipped, found := LatestVersion([]string{"1.2.3", "1.10.0", "1.9.9"}, "")
		require.True(t, found)
		assert.Equal(t, "1.10.0", latest.String())
		assert.Empty(t, skipped)
	})
	t.Run("Should skip malformed tags", func(t *testing.T) {
		latest, skipped, found := LatestVersion([]string{"nightly", "0.1.0", "1.2", "0.3.0"}, "")
		require.True(t, found)
		assert.Equal(t, "0.3.0", latest.String())
		assert.Equal(t, []string{"nightly", "1.2"}, skipped)
	})
	t.Run("Should report not found when nothing parses", func(t *testing.T) {
		latest, skipped, found := LatestVersion([]string{"nightly"}, "")
		assert.False(t, found)
		assert.Nil(t, latest)
		assert.Equal(t, []string{"nightly"}, skipped)
	})
	t.Run("Should honour tag prefix", func(t *testing.T) {
		latest, skipped, found := LatestVersion([]string{"v1.0.0", "v2.0.0", "3.0.0"}, "v")
		require.True(t, found)
		assert.Equal(t, "2.0.0", latest.String())
		assert.Equal(t, []string{"3.0.0"}, skipped)
	})
}

func TestInitialVersion(t *testing.T) {
	t.Run("Should default to 0.0.0", func(t *testing.T) {
		assert.Equal(t, "0.0.0", InitialVersion().String())
	})
}

func TestParseBumpKind(t *testing.T) {
	t.Run("Should accept names and menu numbers", func(t *testing.T) {
		for input, want := range map[string]BumpKind{
			"major": BumpMajor, "1": BumpMajor, "MINOR": BumpMinor,
			"2": BumpMinor, " patch ": BumpPatch, "3": BumpPatch,
		} {
			kind, err := ParseBumpKind(input)
			require.NoError(t, err, input)
			assert.Equal(t, want, kind, input)
		}
	})
	t.Run("Should reject unknown kinds", func(t *testing.T) {
		_, err := ParseBumpKind("4")
		assert.Error(t, err)
	})
}
