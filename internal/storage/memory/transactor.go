package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

type txMarker struct{}

// Transactor сериализует транзакции in-memory хранилища.
//
// Каждая операция репозитория атомарна сама по себе, поэтому откатывать
// нечего: при ошибке запись просто не происходит. Вложенные вызовы
// присоединяются к внешней транзакции.
type Transactor struct {
	mu sync.Mutex
}

// NewTransactor создаёт Transactor для in-memory репозиториев.
func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, joined := ctx.Value(txMarker{}).(bool); joined {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return fn(context.WithValue(ctx, txMarker{}, true))
}

var _ domain.Transactor = (*Transactor)(nil)
