package loader

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/davinci-tally/internal/testutil"
	"github.com/vocdoni/davinci-tally/types"
)

func TestLoadShares(t *testing.T) {
	c := qt.New(t)

	c.Run("count matches", func(c *qt.C) {
		want := testutil.DecryptShares(2, 3)
		path := testutil.WriteJSON(c, "shares.json", want)

		shares, err := LoadShares(path, 2, 0)
		c.Assert(err, qt.IsNil)
		c.Assert(shares, qt.DeepEquals, want)
	})

	c.Run("count mismatch", func(c *qt.C) {
		path := testutil.WriteJSON(c, "shares.json", testutil.DecryptShares(2, 3))

		_, err := LoadShares(path, 3, 0)
		c.Assert(err, qt.ErrorIs, ErrShareCountMismatch)
		c.Assert(err, qt.ErrorMatches, "share count mismatch: got 2 share sets for 3 proposals")
	})

	c.Run("minimum shares per proposal", func(c *qt.C) {
		shares := testutil.DecryptShares(2, 3)
		shares[1] = shares[1][:1]
		path := testutil.WriteJSON(c, "shares.json", shares)

		_, err := LoadShares(path, 2, 2)
		c.Assert(err, qt.ErrorIs, ErrNotEnoughShares)
		c.Assert(err, qt.ErrorMatches, "not enough decryption shares: proposal 1 has 1 shares, need 2")

		loaded, err := LoadShares(path, 2, 1)
		c.Assert(err, qt.IsNil)
		c.Assert(loaded[1], qt.HasLen, 1)
	})

	c.Run("malformed hex", func(c *qt.C) {
		path := testutil.WriteFile(c, "shares.json", []byte(`[["0xzz"]]`))
		_, err := LoadShares(path, 1, 0)
		c.Assert(err, qt.ErrorIs, ErrMalformedInput)
	})

	c.Run("empty share", func(c *qt.C) {
		path := testutil.WriteFile(c, "shares.json", []byte(`[["0x01", "0x"]]`))
		_, err := LoadShares(path, 1, 0)
		c.Assert(err, qt.ErrorMatches, ".*malformed input: empty share 1 of proposal 0")
	})

	c.Run("trailing data", func(c *qt.C) {
		for _, doc := range []string{`[["0x01"]] trailing garbage`, `[["0x01"]] [["0x02"]]`, `[["0x01"]]]`} {
			path := testutil.WriteFile(c, "shares.json", []byte(doc))
			_, err := LoadShares(path, 1, 0)
			c.Assert(err, qt.ErrorIs, ErrMalformedInput)
		}

		path := testutil.WriteFile(c, "shares.json", []byte("[[\"0x01\"]]\n\n"))
		shares, err := LoadShares(path, 1, 0)
		c.Assert(err, qt.IsNil)
		c.Assert(shares, qt.HasLen, 1)
	})

	c.Run("not an array", func(c *qt.C) {
		path := testutil.WriteFile(c, "shares.json", []byte(`{"shares": []}`))
		_, err := LoadShares(path, 0, 0)
		c.Assert(err, qt.ErrorIs, ErrMalformedInput)
	})

	c.Run("standard input", func(c *qt.C) {
		previous := stdin
		c.Cleanup(func() { stdin = previous })
		stdin = strings.NewReader(`[["0x0102"], ["0x0304", "0x0506"]]`)

		shares, err := LoadShares("", 2, 1)
		c.Assert(err, qt.IsNil)
		c.Assert(shares, qt.DeepEquals, [][]types.DecryptShare{
			{{0x01, 0x02}},
			{{0x03, 0x04}, {0x05, 0x06}},
		})
	})
}

func TestFileLoader(t *testing.T) {
	c := qt.New(t)

	vp := testutil.NewVotePlan(testutil.FixedVotePlanID(), testutil.DecryptedTally(1))
	vpPath := testutil.WriteJSON(c, "voteplan.json", []*types.VotePlan{vp})
	sharesPath := testutil.WriteJSON(c, "shares.json", testutil.DecryptShares(1, 1))

	var ld FileLoader
	loaded, err := ld.VotePlan(vpPath, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.ID, qt.Equals, vp.ID)

	shares, err := ld.Shares(sharesPath, len(loaded.Proposals), 1)
	c.Assert(err, qt.IsNil)
	c.Assert(shares, qt.HasLen, 1)
}
