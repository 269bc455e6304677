package usecase

import (
	"fmt"
	"math/rand"
	"time"
)

// 表示用の取引コード（TRX-YYYYMMDD-NNNNN）。一意キーではない
type CodeGenerator interface {
	Generate(now time.Time) string
}

type RandomCodeGenerator struct {
	intN func(n int) int
}

func NewRandomCodeGenerator() *RandomCodeGenerator {
	return &RandomCodeGenerator{intN: rand.Intn}
}

func (g *RandomCodeGenerator) Generate(now time.Time) string {
	//1〜99999
	n := g.intN(99999) + 1
	return fmt.Sprintf("TRX-%s-%05d", now.Format("20060102"), n)
}
