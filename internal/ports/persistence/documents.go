package persistence

import "context"

// Document JSON-документ: только строки, числа, bool, map и slice
type Document map[string]any

// DocumentStore хранилище документов по (collection, id).
// Get возвращает domain.ErrNotFound, если документа нет.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	// Put полностью заменяет документ
	Put(ctx context.Context, collection, id string, doc Document) error
	// PutMerge дописывает поля верхнего уровня к существующему документу.
	// created_at существующего документа не перезаписывается.
	PutMerge(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) (bool, error)
}
