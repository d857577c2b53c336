package gf

// conwayCondensed lists, for each tabulated degree m, the exponents of
// the nonzero terms of the degree-m Conway polynomial over GF(2),
// taken from the Conway polynomial databases referenced in the RAID-6
// parity design (sporadic.stanford.edu / math.rwth-aachen.de). The
// term for exponent m itself (the leading 1) is always included.
var conwayCondensed = map[int][]int{
	1:   {1, 0},
	2:   {2, 1, 0},
	3:   {3, 1, 0},
	4:   {4, 1, 0},
	5:   {5, 2, 0},
	6:   {6, 4, 3, 1, 0},
	7:   {7, 1, 0},
	8:   {8, 4, 3, 2, 0},
	9:   {9, 4, 0},
	10:  {10, 6, 5, 3, 2, 1, 0},
	11:  {11, 2, 0},
	12:  {12, 7, 6, 5, 3, 1, 0},
	13:  {13, 4, 3, 1, 0},
	14:  {14, 7, 5, 3, 0},
	15:  {15, 5, 4, 2, 0},
	16:  {16, 5, 3, 2, 0},
	17:  {17, 3, 0},
	18:  {18, 12, 10, 1, 0},
	19:  {19, 5, 2, 1, 0},
	20:  {20, 10, 9, 7, 6, 5, 4, 1, 0},
	21:  {21, 6, 5, 2, 0},
	22:  {22, 12, 11, 10, 9, 8, 6, 5, 0},
	23:  {23, 5, 0},
	24:  {24, 16, 15, 14, 13, 10, 9, 7, 5, 3, 0},
	25:  {25, 8, 6, 2, 0},
	26:  {26, 14, 10, 8, 7, 6, 4, 1, 0},
	27:  {27, 12, 10, 9, 7, 5, 3, 2, 0},
	28:  {28, 13, 7, 6, 5, 2, 0},
	29:  {29, 2, 0},
	30:  {30, 17, 16, 13, 11, 7, 5, 3, 2, 1, 0},
	31:  {31, 3, 0},
	32:  {32, 15, 9, 7, 4, 3, 0},
	33:  {33, 13, 12, 11, 10, 8, 6, 3, 0},
	34:  {34, 16, 15, 12, 11, 8, 7, 6, 5, 4, 2, 1, 0},
	35:  {35, 11, 10, 7, 5, 2, 0},
	36:  {36, 23, 22, 20, 19, 17, 14, 13, 8, 6, 5, 1, 0},
	37:  {37, 5, 4, 3, 2, 1, 0},
	38:  {38, 14, 10, 9, 8, 5, 2, 1, 0},
	39:  {39, 15, 12, 11, 10, 9, 7, 6, 5, 2, 0},
	40:  {40, 23, 21, 18, 16, 15, 13, 12, 8, 5, 3, 1, 0},
	64:  {64, 33, 30, 26, 25, 24, 23, 22, 21, 20, 18, 13, 12, 11, 10, 7, 5, 4, 2, 1, 0},
	97:  {97, 6, 0},
	100: {100, 15, 0},
}

// conwayPolynomial returns the bit-vector representation of the
// degree-m Conway polynomial (bit i set iff x^i has a nonzero
// coefficient), and whether m is in the tabulated domain.
func conwayPolynomial(m int) (uint64, bool) {
	exponents, ok := conwayCondensed[m]
	if !ok {
		return 0, false
	}
	var poly uint64
	for _, e := range exponents {
		poly |= 1 << uint(e)
	}
	return poly, true
}

// SupportedDegree reports whether m has a tabulated Conway polynomial.
func SupportedDegree(m int) bool {
	_, ok := conwayCondensed[m]
	return ok
}
