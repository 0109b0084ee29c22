// Package fuzztests houses Go fuzz harnesses for the reindentation pipeline
// (source -> lexer -> brace matcher -> aligner / pretty-printer). They guard
// against panics, lost bytes and unstable formatting on arbitrary inputs.
//
// Назначение: прогонять случайные байты через лексер, выравниватель и
// форматтер и проверять инварианты через internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
