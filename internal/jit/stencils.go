package jit

import "fmt"

// stencilOrder fixes the emission order of the built-in stencils (spec.md
// §4.4), which in turn fixes their func_N label numbers: the JIT Engine's
// label counter for the "func" prefix starts at len(stencilOrder) so user
// function labels never collide with stencil labels (spec.md §4.3 "Function
// labels are func_N where N is the cumulative count of emitted user
// functions plus the number of built-in stencils").
var stencilOrder = []string{"+", "-", "*", "/", "<", "<=", ">", ">=", "==", "!="}

// stencilText renders the fixed assembly body for a stencil labeled label,
// implementing the operator op (spec.md §4.4).
func stencilText(label, op string) string {
	header := fmt.Sprintf(".global %s\n.type %s, @function\n%s:\n\tpush %%rbp\n\tmov %%rsp, %%rbp\n", label, label, label)
	footer := "\tpop %rbp\n\tret\n"

	var body string
	switch op {
	case "+":
		body = "\tmov %rdi, %rax\n\tadd %rsi, %rax\n"
	case "-":
		body = "\tmov %rdi, %rax\n\tsub %rsi, %rax\n"
	case "*":
		body = "\tmov %rdi, %rax\n\timul %rsi, %rax\n"
	case "/":
		// Zero-extend the 128-bit dividend into rdx:rax before div, per
		// spec.md §4.4.
		body = "\txor %rdx, %rdx\n\tmov %rdi, %rax\n\tdiv %rsi\n"
	case "<":
		body = "\txor %rax, %rax\n\tcmp %rsi, %rdi\n\tsetl %al\n"
	case "<=":
		body = "\txor %rax, %rax\n\tcmp %rsi, %rdi\n\tsetle %al\n"
	case ">":
		body = "\txor %rax, %rax\n\tcmp %rsi, %rdi\n\tsetg %al\n"
	case ">=":
		body = "\txor %rax, %rax\n\tcmp %rsi, %rdi\n\tsetge %al\n"
	case "==":
		body = "\txor %rax, %rax\n\tcmp %rsi, %rdi\n\tsete %al\n"
	case "!=":
		body = "\txor %rax, %rax\n\tcmp %rsi, %rdi\n\tsetne %al\n"
	}

	return header + body + footer
}

// stencilLabel returns the fixed func_N label assigned to operator op's
// stencil, by its position in stencilOrder.
func stencilLabel(op string) string {
	for i, o := range stencilOrder {
		if o == op {
			return fmt.Sprintf("func_%d", i)
		}
	}
	return ""
}

// allStencilsText concatenates every stencil's assembly text, in
// stencilOrder, for the engine to emit once at startup.
func allStencilsText() string {
	var out string
	for _, op := range stencilOrder {
		out += stencilText(stencilLabel(op), op)
	}
	return out
}
