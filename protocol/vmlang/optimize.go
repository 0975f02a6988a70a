package vmlang

import "github.com/arclight-vm/arclight/protocol/vm"

// simplify rewrites e into a smaller tree with the same meaning.
// All expressions here are pure, so dropping an unused operand
// never loses an effect.
func simplify(e Expr) Expr {
	switch n := e.(type) {
	case unaryExpr:
		operand := simplify(n.operand)
		if inner, ok := operand.(unaryExpr); ok && n.op == inner.op && n.op == vm.OP_NOT {
			// NOT NOT x = x when x is already boolean; keep the
			// outer pair only if the operand might be a bare
			// integer.
			if isBoolean(inner.operand) {
				return inner.operand
			}
		}
		n.operand = operand
		return n
	case naryExpr:
		return simplifyNary(n)
	case seqExpr:
		return simplifySeq(n)
	case condExpr:
		arms := make(condExpr, len(n))
		for i, arm := range n {
			arms[i] = Arm{If: simplify(arm.If), Then: simplify(arm.Then)}
		}
		return arms
	case binaryExpr:
		n.left = simplify(n.left)
		n.right = simplify(n.right)
		return n
	case eqExpr:
		n.left = simplify(n.left)
		n.right = simplify(n.right)
		return n
	case ternaryExpr:
		n.a = simplify(n.a)
		n.b = simplify(n.b)
		n.d = simplify(n.d)
		return n
	case extractUintExpr:
		n.src = simplify(n.src)
		n.off = simplify(n.off)
		return n
	case assertExpr:
		n.cond = simplify(n.cond)
		return n
	case storeExpr:
		n.v = simplify(n.v)
		return n
	case gtxnExpr:
		n.index = simplify(n.index)
		return n
	default:
		return e
	}
}

func simplifyNary(n naryExpr) Expr {
	switch n.op {
	case vm.OP_BOOLAND:
		var args []Expr
		for _, a := range n.args {
			a = simplify(a)
			if v, ok := a.(intExpr); ok {
				if v == 0 {
					return Int(0)
				}
				continue // a true conjunct changes nothing
			}
			args = append(args, a)
		}
		switch len(args) {
		case 0:
			return Int(1)
		case 1:
			return args[0]
		}
		n.args = args
		return n
	case vm.OP_BOOLOR:
		var args []Expr
		for _, a := range n.args {
			a = simplify(a)
			if v, ok := a.(intExpr); ok {
				if v != 0 {
					return Int(1)
				}
				continue
			}
			args = append(args, a)
		}
		switch len(args) {
		case 0:
			return Int(0)
		case 1:
			return args[0]
		}
		n.args = args
		return n
	default:
		args := make([]Expr, len(n.args))
		for i, a := range n.args {
			args[i] = simplify(a)
		}
		n.args = args
		return n
	}
}

func simplifySeq(n seqExpr) Expr {
	var out seqExpr
	for i, sub := range n {
		sub = simplify(sub)
		if inner, ok := sub.(seqExpr); ok && (i == len(n)-1 || inner.Type() == TypeNone) {
			out = append(out, inner...)
			continue
		}
		if a, ok := sub.(assertExpr); ok {
			if v, ok := a.cond.(intExpr); ok && v != 0 {
				continue // assertion trivially holds
			}
		}
		out = append(out, sub)
	}
	switch len(out) {
	case 0:
		if len(n) == 0 {
			return n
		}
		// Everything was trivially true; keep one element so the
		// sequence still assembles.
		return simplify(n[len(n)-1])
	case 1:
		return out[0]
	}
	return out
}

// isBoolean reports whether e is known to evaluate to 0 or 1.
func isBoolean(e Expr) bool {
	switch n := e.(type) {
	case unaryExpr:
		return n.op == vm.OP_NOT
	case naryExpr:
		return n.op == vm.OP_BOOLAND || n.op == vm.OP_BOOLOR
	case eqExpr:
		return true
	case intExpr:
		return n <= 1
	}
	return false
}
