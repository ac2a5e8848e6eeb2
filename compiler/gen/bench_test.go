package gen

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/autocolumn/compiler/load"
)

func BenchmarkGenerate(b *testing.B) {
	records := make([]*load.Record, 0, 50)
	for i := range 50 {
		r := fooRecord()
		r.Name = fmt.Sprintf("Foo%d", i)
		records = append(records, r)
	}
	c := MustNewConfig(WithTarget(b.TempDir()), WithFormat(false))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := c.Generate(context.Background(), records)
		require.NoError(b, err)
	}
}

func BenchmarkAssemble(b *testing.B) {
	c := MustNewConfig()
	r := sessionRecord()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := c.Assemble(r)
		require.NoError(b, err)
	}
}
