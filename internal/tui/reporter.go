package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"miner/internal/fetch"
	"miner/internal/jars"
)

// FetchReporter adapts bubbletea message sending to the fetch.Observer
// interface. It uses caller-supplied functions to extract keys and fields so
// the tui package doesn't need to know about specific column layouts.
type FetchReporter struct {
	send           func(tea.Msg)
	keyFromJar     func(jars.ResolvedJarFile) string
	startFields    func(jars.ResolvedJarFile) map[string]string
	finishedFields func(fetch.Result) map[string]string
}

// NewFetchReporter constructs a reporter with the given mapping functions.
func NewFetchReporter(
	send func(tea.Msg),
	keyFromJar func(jars.ResolvedJarFile) string,
	startFields func(jars.ResolvedJarFile) map[string]string,
	finishedFields func(fetch.Result) map[string]string,
) *FetchReporter {
	return &FetchReporter{
		send:           send,
		keyFromJar:     keyFromJar,
		startFields:    startFields,
		finishedFields: finishedFields,
	}
}

// JarStarted implements fetch.Observer.
func (r *FetchReporter) JarStarted(jar jars.ResolvedJarFile) {
	r.send(RowUpdateMsg{
		Key:    r.keyFromJar(jar),
		Fields: r.startFields(jar),
	})
}

// JarFinished implements fetch.Observer.
func (r *FetchReporter) JarFinished(res fetch.Result) {
	r.send(RowUpdateMsg{
		Key:    r.keyFromJar(res.Jar),
		Fields: r.finishedFields(res),
	})
}
