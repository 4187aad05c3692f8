// Package fuzztests houses Go fuzz harnesses for the scan, parse and lint
// pipeline. They guard against panics and broken structural invariants on
// arbitrary input.
//
// Назначение: загрузить байты в FileSet и прогнать их через сканер, парсер и
// все правила.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
