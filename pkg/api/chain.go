package api

// PrecededBy returns a completion that inserts first immediately
// before done, on the success path only.
//
// Invoking the returned completion with a failure forwards that
// failure to done unchanged, without running first. Invoking it with
// success runs first; whatever outcome first delivers (success or its
// own failure) is then forwarded to done.
func PrecededBy(done Completion, first Work) Completion {
	done = Once(done)
	first = Recover(first)
	return func(err error) {
		if err != nil {
			done(err)
			return
		}
		first(done)
	}
}

// PrecededByAlways returns a completion that runs first regardless of
// the prior outcome. After first completes, the original outcome is
// forwarded to done, unless first itself failed, in which case first's
// failure takes precedence.
//
// This is an extension beyond the guaranteed PrecededBy contract; see
// PrecededBy for the success-only variant.
func PrecededByAlways(done Completion, first Work) Completion {
	done = Once(done)
	first = Recover(first)
	return func(prior error) {
		first(Once(func(err error) {
			if err != nil {
				done(err)
				return
			}
			done(prior)
		}))
	}
}
