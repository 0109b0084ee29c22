// Package format is the whole-document pretty-printer.
//
// Назначение: переотступ всего файла по глубине скобок, без разбора AST.
// Не делает: перенос строк, выравнивание внутри строки, IO.
// Зависимости: internal/lexer, internal/brace, internal/source.
package format
