package patterns

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytePerAccessValidation(t *testing.T) {
	for _, kind := range []Kind{Sequential, Stride, DynamicRandom} {
		t.Run(kind.String(), func(t *testing.T) {
			for _, bpa := range []int{3, 100, 0, -8} {
				region, _ := newRegion(t, 8192)

				p := New(kind)
				err := p.Init(region, options(func(o *Options) { o.BytePerAccess = bpa }))
				require.ErrorIs(t, err, ErrConfig, "byte_per_access %v", bpa)
				require.False(t, p.Initialized())
			}

			for _, bpa := range []int{1, 64, 4096} {
				region, _ := newRegion(t, 8192)

				p := New(kind)
				require.NoError(t, p.Init(region, options(func(o *Options) { o.BytePerAccess = bpa })), "byte_per_access %v", bpa)
				require.True(t, p.Initialized())
			}
		})
	}
}

func TestInitRejectsNonPositiveIteration(t *testing.T) {
	for _, kind := range Kinds() {
		region, _ := newRegion(t, 1024)

		err := New(kind).Init(region, options(func(o *Options) { o.Iteration = 0 }))
		require.ErrorIs(t, err, ErrConfig, kind.String())
	}
}

func TestInitRejectsBadRegion(t *testing.T) {
	tests := []struct {
		name   string
		region []byte
	}{
		{"empty", nil},
		{"not a multiple of a cache line", make([]byte, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, kind := range Kinds() {
				p := New(kind)
				require.ErrorIs(t, p.Init(tt.region, DefaultOptions()), ErrResource, kind.String())
				require.False(t, p.Initialized())
			}
		})
	}
}

func TestInitRejectsRegionSmallerThanOneElement(t *testing.T) {
	region, _ := newRegion(t, 1024)

	err := New(Sequential).Init(region, options(func(o *Options) { o.BytePerAccess = 4096 }))
	require.ErrorIs(t, err, ErrResource)
}

func TestAccessBeforeInit(t *testing.T) {
	for _, kind := range Kinds() {
		res, err := New(kind).Access()
		require.ErrorIs(t, err, ErrNotInitialized, kind.String())
		require.Zero(t, res)
	}
}

func TestAccessAfterFailedInit(t *testing.T) {
	region, _ := newRegion(t, 1024)

	p := New(Sequential)
	require.NoError(t, p.Init(region, DefaultOptions()))
	require.Error(t, p.Init(region, options(func(o *Options) { o.BytePerAccess = 3 })))

	_, err := p.Access()
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestAccessAfterRelease(t *testing.T) {
	region, _ := newRegion(t, 1024)

	p := New(Stride)
	require.NoError(t, p.Init(region, DefaultOptions()))

	p.Release()

	_, err := p.Access()
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestSequentialReadCount(t *testing.T) {
	tests := []struct {
		iteration int
		reads     uint64
	}{
		{1, 16},
		{3, 48},
	}

	for _, tt := range tests {
		region, _ := newRegion(t, 1024)

		p := New(Sequential)
		require.NoError(t, p.Init(region, options(func(o *Options) {
			o.BytePerAccess = 64
			o.Iteration = tt.iteration
		})))

		res, err := p.Access()
		require.NoError(t, err)
		require.Equal(t, tt.reads, res.Reads)
	}
}

func TestSequentialChecksum(t *testing.T) {
	region, words := newRegion(t, 1024)
	for i := range words {
		words[i] = uint64(i)
	}

	p := New(Sequential)
	require.NoError(t, p.Init(region, options(func(o *Options) { o.BytePerAccess = 64 })))

	res, err := p.Access()
	require.NoError(t, err)

	// Words 0, 8, ..., 120.
	require.Equal(t, uint64(960), res.Checksum)
}

func TestSequentialSubWordAccess(t *testing.T) {
	region, words := newRegion(t, 64)
	for i := range words {
		words[i] = uint64(i + 1)
	}

	p := New(Sequential)
	require.NoError(t, p.Init(region, options(func(o *Options) { o.BytePerAccess = 1 })))

	res, err := p.Access()
	require.NoError(t, err)
	require.Equal(t, uint64(64), res.Reads)
	require.Equal(t, uint64(8*36), res.Checksum)
}

func TestStrideVisitsEveryStrideElement(t *testing.T) {
	region, words := newRegion(t, 100*64)
	for i := 0; i < 100; i++ {
		words[i*8] = uint64(i)
	}

	p := New(Stride)
	require.NoError(t, p.Init(region, options(func(o *Options) {
		o.BytePerAccess = 64
		o.AccessStride = 4
	})))

	res, err := p.Access()
	require.NoError(t, err)
	require.Equal(t, uint64(25), res.Reads)
	require.Equal(t, uint64(1200), res.Checksum)
}

func TestStrideLargerThanRegion(t *testing.T) {
	region, _ := newRegion(t, 1024)

	p := New(Stride)
	require.NoError(t, p.Init(region, options(func(o *Options) {
		o.AccessStride = 1 << 20
		o.Iteration = 2
	})))

	res, err := p.Access()
	require.NoError(t, err)
	require.Equal(t, uint64(2), res.Reads)
}

func TestStrideRejectsNonPositiveStride(t *testing.T) {
	region, _ := newRegion(t, 1024)

	err := New(Stride).Init(region, options(func(o *Options) { o.AccessStride = 0 }))
	require.ErrorIs(t, err, ErrConfig)
}

func TestDynamicRandomReproducible(t *testing.T) {
	region, words := newRegion(t, 1024)
	for i := 0; i < 16; i++ {
		words[i*8] = uint64(i)
	}

	run := func() Result {
		p := New(DynamicRandom)
		require.NoError(t, p.Init(region, options(func(o *Options) {
			o.BytePerAccess = 64
			o.RandomSeed = 12345
		})))

		res, err := p.Access()
		require.NoError(t, err)

		return res
	}

	first := run()
	require.Equal(t, uint64(16), first.Reads)
	// Elements 12 14 13 15 5 9 1 5 7 4 6 2 13 14 2 7.
	require.Equal(t, uint64(129), first.Checksum)
	require.Equal(t, first, run())
}

func TestDynamicRandomStateCarriesOver(t *testing.T) {
	region, words := newRegion(t, 4096)
	for i := range words {
		words[i] = uint64(i)
	}

	a := New(DynamicRandom)
	require.NoError(t, a.Init(region, DefaultOptions()))
	b := New(DynamicRandom)
	require.NoError(t, b.Init(region, options(func(o *Options) { o.Iteration = 2 })))

	first, err := a.Access()
	require.NoError(t, err)
	second, err := a.Access()
	require.NoError(t, err)

	both, err := b.Access()
	require.NoError(t, err)

	require.Equal(t, both.Reads, first.Reads+second.Reads)
	require.Equal(t, both.Checksum, first.Checksum+second.Checksum)
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds() {
		got, err := ParseKind(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, got)
	}

	_, err := ParseKind("random")
	require.ErrorIs(t, err, ErrUnknownPattern)
	require.ErrorIs(t, err, ErrConfig)

	require.Equal(t, "unknown", Kind(42).String())
}

func BenchmarkAccess(b *testing.B) {
	for _, kind := range Kinds() {
		b.Run(kind.String(), func(b *testing.B) {
			region, _ := newRegion(b, 1<<20)

			p := New(kind)
			if err := p.Init(region, DefaultOptions()); err != nil {
				b.Fatal(err)
			}

			b.SetBytes(int64(len(region)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := p.Access(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
