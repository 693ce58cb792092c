package matching

import "strings"

// PhoneticKey reduces normalized Spanish text to a consonant skeleton so
// spellings that sound alike compare equal:
//
//	c before e/i, s, z      -> S
//	c otherwise, k, q       -> K
//	ch                      -> C
//	b, v, w                 -> B
//	ll, y                   -> Y
//	g before e/i, j         -> J
//	x                       -> KS
//	vowels, h, spaces       -> dropped
//
// Runs of the same symbol collapse to one, so "rr" and "r" agree.
func PhoneticKey(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes))

	var last rune
	emit := func(r rune) {
		if r != last {
			b.WriteRune(r)
			last = r
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'h', ' ':
			continue
		case 'c':
			switch next {
			case 'e', 'i':
				emit('S')
			case 'h':
				emit('C')
				i++
			default:
				emit('K')
			}
		case 'k', 'q':
			emit('K')
		case 's', 'z':
			emit('S')
		case 'b', 'v', 'w':
			emit('B')
		case 'l':
			if next == 'l' {
				emit('Y')
				i++
			} else {
				emit('L')
			}
		case 'y':
			emit('Y')
		case 'g':
			if next == 'e' || next == 'i' {
				emit('J')
			} else {
				emit('G')
			}
		case 'j':
			emit('J')
		case 'x':
			emit('K')
			emit('S')
		default:
			if r >= 'a' && r <= 'z' {
				emit(r - 'a' + 'A')
			} else {
				emit(r)
			}
		}
	}
	return b.String()
}
