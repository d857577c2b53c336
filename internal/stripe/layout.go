package stripe

// mod returns a mod n, always in [0, n), for possibly-negative a.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// physP returns the physical disk holding the P chunk of stripe s,
// for an N-disk array: P rotates onto (N-2+s) mod N.
func physP(n, s int) int {
	return mod(n-2+s, n)
}

// physQ returns the physical disk holding the Q chunk of stripe s:
// (N-1+s) mod N.
func physQ(n, s int) int {
	return mod(n-1+s, n)
}

// physData returns the physical disk holding data column c of stripe
// s: (c+s) mod N. Columns rotate past the two parity slots as s
// increases.
func physData(n, s, c int) int {
	return mod(c+s, n)
}

// dataColumnOf inverts physData: given the physical disk d at stripe
// s, returns the logical data column c such that physData(n,s,c)==d.
// Only meaningful when d is not the P or Q slot of stripe s.
func dataColumnOf(n, s, d int) int {
	return mod(d-s, n)
}

// isP reports whether physical disk d holds stripe s's P chunk.
func isP(n, s, d int) bool {
	return d == physP(n, s)
}

// isQ reports whether physical disk d holds stripe s's Q chunk.
func isQ(n, s, d int) bool {
	return d == physQ(n, s)
}
