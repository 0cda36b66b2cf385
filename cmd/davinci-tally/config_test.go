package main

import (
	"testing"

	qt "github.com/frankban/quicktest"
	flag "github.com/spf13/pflag"
	"github.com/vocdoni/davinci-tally/internal/testutil"
	"github.com/vocdoni/davinci-tally/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	c := qt.New(t)

	cfg, err := loadConfig([]string{cmdPrivate, "--shares", "shares.json", "--vote-plan", "voteplan.json"})
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Command, qt.Equals, cmdPrivate)
	c.Assert(cfg.Log.Level, qt.Equals, defaultLogLevel)
	c.Assert(cfg.Log.Output, qt.Equals, defaultLogOutput)
	c.Assert(cfg.Format, qt.Equals, defaultFormat)
	c.Assert(cfg.Shares, qt.Equals, "shares.json")
	c.Assert(cfg.VotePlan, qt.Equals, "voteplan.json")
	c.Assert(cfg.MinShares, qt.Equals, 0)
	c.Assert(cfg.DryRun, qt.IsFalse)
}

func TestLoadConfigFlagsAndEnv(t *testing.T) {
	t.Setenv("DAVINCI_TALLY_MIN_SHARES", "3")
	t.Setenv("DAVINCI_TALLY_LOG_LEVEL", "debug")
	t.Setenv("DAVINCI_TALLY_FORMAT", "binary")
	c := qt.New(t)

	cfg, err := loadConfig([]string{cmdPrivate, "--shares=s.json", "--vote-plan=v.json", "-f", "json", "--dry-run"})
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.MinShares, qt.Equals, 3)
	c.Assert(cfg.Log.Level, qt.Equals, "debug")
	// flags take precedence over the environment
	c.Assert(cfg.Format, qt.Equals, "json")
	c.Assert(cfg.DryRun, qt.IsTrue)
}

func TestLoadConfigErrors(t *testing.T) {
	c := qt.New(t)

	_, err := loadConfig(nil)
	c.Assert(err, qt.ErrorIs, errMissingCommand)

	_, err = loadConfig([]string{"finalize"})
	c.Assert(err, qt.ErrorIs, errUnknownCommand)

	// flags of another command are rejected
	_, err = loadConfig([]string{cmdPublic, "--shares", "shares.json"})
	c.Assert(err, qt.Not(qt.IsNil))

	_, err = loadConfig([]string{cmdInspect, "--help"})
	c.Assert(err, qt.ErrorIs, flag.ErrHelp)
}

func TestRegistration(t *testing.T) {
	c := qt.New(t)
	id := testutil.FixedVotePlanID()

	c.Run("public", func(c *qt.C) {
		reg, err := (&Config{Command: cmdPublic, VotePlanID: id.String(), Output: "out.cert"}).registration()
		c.Assert(err, qt.IsNil)
		c.Assert(reg.Private, qt.IsNil)
		c.Assert(reg.Public.VotePlanID, qt.Equals, id)
		c.Assert(reg.Public.Output, qt.Equals, "out.cert")
	})

	c.Run("public without id", func(c *qt.C) {
		_, err := (&Config{Command: cmdPublic}).registration()
		c.Assert(err, qt.ErrorMatches, "vote plan id is required.*")
	})

	c.Run("public with zero id", func(c *qt.C) {
		_, err := (&Config{Command: cmdPublic, VotePlanID: types.VotePlanID{}.String()}).registration()
		c.Assert(err, qt.ErrorMatches, "invalid vote plan id: zero identifier")
	})

	c.Run("public with malformed id", func(c *qt.C) {
		_, err := (&Config{Command: cmdPublic, VotePlanID: "0x1234"}).registration()
		c.Assert(err, qt.ErrorMatches, "invalid vote plan id: .*")
	})

	c.Run("private", func(c *qt.C) {
		cfg := &Config{
			Command:    cmdPrivate,
			Shares:     "shares.json",
			VotePlan:   "voteplan.json",
			VotePlanID: id.String(),
			MinShares:  2,
			DryRun:     true,
		}
		reg, err := cfg.registration()
		c.Assert(err, qt.IsNil)
		c.Assert(reg.Public, qt.IsNil)
		c.Assert(reg.Private.SharesPath, qt.Equals, "shares.json")
		c.Assert(reg.Private.VotePlanPath, qt.Equals, "voteplan.json")
		c.Assert(*reg.Private.VotePlanID, qt.Equals, id)
		c.Assert(reg.Private.MinShares, qt.Equals, 2)
		c.Assert(reg.Private.DryRun, qt.IsTrue)
	})

	c.Run("private without id", func(c *qt.C) {
		reg, err := (&Config{Command: cmdPrivate, Shares: "s", VotePlan: "v"}).registration()
		c.Assert(err, qt.IsNil)
		c.Assert(reg.Private.VotePlanID, qt.IsNil)
	})

	c.Run("private missing files", func(c *qt.C) {
		_, err := (&Config{Command: cmdPrivate, VotePlan: "v"}).registration()
		c.Assert(err, qt.ErrorMatches, "shares file is required.*")
		_, err = (&Config{Command: cmdPrivate, Shares: "s"}).registration()
		c.Assert(err, qt.ErrorMatches, "vote plan file is required.*")
	})

	c.Run("private negative min shares", func(c *qt.C) {
		_, err := (&Config{Command: cmdPrivate, Shares: "s", VotePlan: "v", MinShares: -1}).registration()
		c.Assert(err, qt.ErrorMatches, "invalid minimum number of shares -1")
	})
}
