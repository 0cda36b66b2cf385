package types

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCertificateValidate(t *testing.T) {
	c := qt.New(t)

	id := VotePlanID{0x01}
	tally := NewDecryptedPrivateTally([]DecryptedPrivateTallyProposal{
		{DecryptShares: []DecryptShare{{0x01}}, TallyResult: []uint64{1}},
	})

	testCases := []struct {
		name    string
		cert    *Certificate
		wantErr bool
	}{
		{name: "public", cert: NewVoteTallyCertificate(NewPublicVoteTally(id))},
		{name: "private", cert: NewVoteTallyCertificate(NewPrivateVoteTally(id, tally))},
		{name: "nil", cert: nil, wantErr: true},
		{name: "unknown type", cert: &Certificate{Type: 9, VoteTally: NewPublicVoteTally(id)}, wantErr: true},
		{name: "missing vote tally", cert: &Certificate{Type: CertificateTypeVoteTally}, wantErr: true},
		{
			name:    "public with payload",
			cert:    NewVoteTallyCertificate(&VoteTally{VotePlanID: id, Payload: PayloadPublic, Private: tally}),
			wantErr: true,
		},
		{
			name:    "private without payload",
			cert:    NewVoteTallyCertificate(&VoteTally{VotePlanID: id, Payload: PayloadPrivate}),
			wantErr: true,
		},
		{
			name:    "unknown payload",
			cert:    NewVoteTallyCertificate(&VoteTally{VotePlanID: id}),
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		c.Run(tc.name, func(c *qt.C) {
			err := tc.cert.Validate()
			if tc.wantErr {
				c.Assert(err, qt.ErrorIs, ErrInvalidCertificate)
				return
			}
			c.Assert(err, qt.IsNil)
		})
	}
}

func TestPayloadTypeText(t *testing.T) {
	c := qt.New(t)

	for _, p := range []PayloadType{PayloadPublic, PayloadPrivate} {
		text, err := p.MarshalText()
		c.Assert(err, qt.IsNil)
		var decoded PayloadType
		c.Assert(decoded.UnmarshalText(text), qt.IsNil)
		c.Assert(decoded, qt.Equals, p)
	}

	_, err := PayloadType(0).MarshalText()
	c.Assert(err, qt.ErrorMatches, "unknown payload type 0")

	var p PayloadType
	c.Assert(p.UnmarshalText([]byte("secret")), qt.ErrorMatches, `unknown payload type "secret"`)
}

func TestCertificateJSONShape(t *testing.T) {
	c := qt.New(t)

	cert := NewVoteTallyCertificate(NewPublicVoteTally(VotePlanID{0xaa}))
	out, err := json.Marshal(cert)
	c.Assert(err, qt.IsNil)

	var raw map[string]any
	c.Assert(json.Unmarshal(out, &raw), qt.IsNil)
	c.Assert(raw["type"], qt.Equals, CertificateTypeVoteTallyName)
	vt := raw["vote_tally"].(map[string]any)
	c.Assert(vt["payload"], qt.Equals, PayloadPublicName)
	c.Assert(vt["vote_plan_id"], qt.Equals, VotePlanID{0xaa}.String())
	_, hasPrivate := vt["private"]
	c.Assert(hasPrivate, qt.IsFalse)
}
