package grid

import "math/rand"

// Sampler produces the next combination whose key is not yet in history.
// It never mutates the space or the history.
type Sampler interface {
	Next(space *Space, history *History) (Key, Choice, error)
}

// NewSampler returns a Random sampler drawing from rng when randomOrder is
// set, and a Sequential one otherwise.
func NewSampler(randomOrder bool, rng *rand.Rand) Sampler {
	if randomOrder {
		return NewRandom(rng)
	}
	return Sequential{}
}

// Sequential enumerates the space in mixed-radix order, using the history
// size as the linear index.
type Sequential struct{}

func (Sequential) Next(space *Space, history *History) (Key, Choice, error) {
	size := space.Size()
	start := history.Len()
	if start >= size {
		return "", nil, ErrSpaceExhausted
	}

	// The decoded index only collides when random draws were mixed into the
	// same history; scan forward for the next unused combination.
	for off := 0; off < size; off++ {
		c := space.Decode((start + off) % size)
		k := Encode(c)
		if !history.Has(k) {
			return k, c, nil
		}
	}
	return "", nil, ErrSpaceExhausted
}

// Random draws each attribute uniformly and independently, redrawing the
// whole combination until its key is unused. Close to exhaustion this can
// take many draws.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Random{rng: rng}
}

func (r *Random) Next(space *Space, history *History) (Key, Choice, error) {
	if history.Len() >= space.Size() {
		return "", nil, ErrSpaceExhausted
	}

	for {
		c := make(Choice, space.Len())
		for i, a := range space.attrs {
			c[i] = Assignment{Name: a.Name, Value: a.Values[r.rng.Intn(len(a.Values))]}
		}
		k := Encode(c)
		if !history.Has(k) {
			return k, c, nil
		}
	}
}
