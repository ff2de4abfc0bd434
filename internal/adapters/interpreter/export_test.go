package interpreter

var (
	ResolveEnvironment = resolveEnvironment
	LastLine           = lastLine
)
