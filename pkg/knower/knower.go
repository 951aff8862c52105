// Package knower is the public shim over the internal prover packages,
// re-exporting the types and functions external tools need without
// violating Go's internal package encapsulation rules.
package knower

import (
	"knower/internal/formula"
	"knower/internal/problem"
	"knower/internal/prover"
	"knower/internal/term"
)

// Proving.
type Prover = prover.Prover
type Config = prover.Config
type Stats = prover.Stats

var New = prover.New
var DefaultConfig = prover.DefaultConfig

// Formulas.
type Formula = formula.Formula

var Parse = formula.Parse
var MustParse = formula.MustParse

var True = formula.True
var False = formula.False
var Lit = formula.Lit
var Eq = formula.Eq
var Neq = formula.Neq
var Not = formula.Not
var And = formula.And
var Or = formula.Or
var Implies = formula.Implies
var Iff = formula.Iff
var Forall = formula.Forall
var Exists = formula.Exists
var Knows = formula.Knows

// Terms.
type Term = term.Term

var NewVar = term.NewVar
var Const = term.Const
var Compound = term.Compound

// Problem files.
type Problem = problem.Problem
type Goal = problem.Goal
type Result = problem.Result

var LoadProblem = problem.Load
var ParseProblem = problem.Parse
var RunProblem = problem.Run
