package sequence

// iupacMask maps a nucleotide code to the set of bases it stands for.
// bit0=A bit1=C bit2=G bit3=T; zero means the byte is not a nucleotide code.
var iupacMask [256]byte

func init() {
	set := func(c byte, bits byte) {
		iupacMask[c] = bits
		iupacMask[c|0x20] = bits // lower case
	}
	set('A', 1)
	set('C', 2)
	set('G', 4)
	set('T', 8)
	set('U', 8)
	set('R', 1|4)     // A/G
	set('Y', 2|8)     // C/T
	set('S', 2|4)     // C/G
	set('W', 1|8)     // A/T
	set('K', 4|8)     // G/T
	set('M', 1|2)     // A/C
	set('B', 2|4|8)   // C/G/T
	set('D', 1|4|8)   // A/G/T
	set('H', 1|2|8)   // A/C/T
	set('V', 1|2|4)   // A/C/G
	set('N', 1|2|4|8) // any
}

var callFor = [16]byte{1: 'A', 2: 'C', 4: 'G', 8: 'T'}

// CallBase maps a nucleotide code to a read call: one of A, C, G, T, or N for
// any code that stands for more than one base. ok is false for bytes that
// are not nucleotide codes.
func CallBase(c byte) (call byte, ok bool) {
	mask := iupacMask[c]
	if mask == 0 {
		return 0, false
	}
	if b := callFor[mask]; b != 0 {
		return b, true
	}
	return 'N', true
}

// Calls converts a string of nucleotide codes to read calls. It returns the
// position of the first byte that is not a nucleotide code, or -1.
func Calls(s string) (string, int) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b, ok := CallBase(s[i])
		if !ok {
			return "", i
		}
		out[i] = b
	}
	return string(out), -1
}

// IsUnambiguous reports whether c is exactly one of A, C, G, T (upper case).
func IsUnambiguous(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}
