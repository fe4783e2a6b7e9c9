package symbols

// Builtin is a command implemented by the shell itself.
type Builtin struct {
	Name        string
	Description string
}

// Builtins lists the commands the shell runs without consulting PATH.
var Builtins = []Builtin{
	{Name: "alias", Description: "Define or display aliases"},
	{Name: "cd", Description: "Change the working directory"},
	{Name: "complete", Description: "Register a completion function for a command"},
	{Name: "echo", Description: "Write arguments to standard output"},
	{Name: "eval", Description: "Run arguments as a shell command"},
	{Name: "exec", Description: "Replace the shell with a command"},
	{Name: "exit", Description: "Exit the shell"},
	{Name: "export", Description: "Mark variables for export"},
	{Name: "pwd", Description: "Print the working directory"},
	{Name: "read", Description: "Read a line from standard input"},
	{Name: "set", Description: "Set shell options"},
	{Name: "source", Description: "Run commands from a file in the current shell"},
	{Name: "test", Description: "Evaluate a conditional expression"},
	{Name: "type", Description: "Describe how a name would be interpreted"},
	{Name: "unalias", Description: "Remove alias definitions"},
	{Name: "unset", Description: "Unset variables or functions"},
}
