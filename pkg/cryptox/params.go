package cryptox

// Params tunes the Argon2id cost for hashing. Higher values raise the CPU and
// memory price of every hash and verify call, which is the point: offline
// guessing gets proportionally more expensive.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams follows the OWASP minimum recommendation for Argon2id.
var DefaultParams = Params{
	Memory:      19 * 1024, // 19 MiB
	Iterations:  2,
	Parallelism: 1,
}

const (
	keyLength  = 32 // length of the derived hash
	saltLength = 16
)

func (p Params) orDefault() Params {
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return DefaultParams
	}
	return p
}
