package room

import (
	"math/rand"
	"time"
)

// 乱数は先攻の決定とルームIDの生成に使用
func createLocalRandGenerator() *rand.Rand {
	source := rand.NewSource(time.Now().UnixNano())
	return rand.New(source)
}
