package types

// Classification of a proposal tally, as reported in diagnostics.
const (
	TallyKindNone             = "none"
	TallyKindPublic           = "public tally"
	TallyKindPrivateEncrypted = "private encrypted tally"
	TallyKindPrivateDecrypted = "private decrypted tally"
)

// TallyMatcher handles every state a proposal tally can be in. A new state
// is added here as a new method, which makes every implementation fail to
// compile until it handles it.
type TallyMatcher[R any] interface {
	None() R
	Public(*PublicTally) R
	PrivateEncrypted(*EncryptedTally) R
	PrivateDecrypted(*DecryptedTally) R
}

// MatchTally calls the method of m that corresponds to the state of t and
// returns its result. A nil tally, or one with no variant set, is None. A
// private tally without a decrypted state is PrivateEncrypted.
func MatchTally[R any](t *Tally, m TallyMatcher[R]) R {
	switch {
	case t == nil:
		return m.None()
	case t.Public != nil:
		return m.Public(t.Public)
	case t.Private != nil && t.Private.State.Decrypted != nil:
		return m.PrivateDecrypted(t.Private.State.Decrypted)
	case t.Private != nil:
		return m.PrivateEncrypted(t.Private.State.Encrypted)
	default:
		return m.None()
	}
}

type tallyKind struct{}

func (tallyKind) None() string                            { return TallyKindNone }
func (tallyKind) Public(*PublicTally) string              { return TallyKindPublic }
func (tallyKind) PrivateEncrypted(*EncryptedTally) string { return TallyKindPrivateEncrypted }
func (tallyKind) PrivateDecrypted(*DecryptedTally) string { return TallyKindPrivateDecrypted }

// TallyKindOf returns the classification of t, one of the TallyKind
// constants.
func TallyKindOf(t *Tally) string {
	return MatchTally[string](t, tallyKind{})
}
