// Package migrations - схема таблицы набора по умолчанию, встраивается в бинарники
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
