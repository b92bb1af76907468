// Package main provides the drift CLI.
package main

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/stat"

	"github.com/drift-ml/drift/ad"
	"github.com/drift-ml/drift/mcmc"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("drift %s\n", version)
			return
		case "demo":
			demo()
			return
		}
	}

	fmt.Println("drift - Gradient-Based MCMC for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Sample a standard normal with NUTS")
}

// demo runs NUTS on a 1D standard normal and prints the empirical
// moments of the post-warmup draws.
func demo() {
	s := mcmc.NewNUTS(mcmc.NUTSConfig{Seed: 1})
	s.SetLogProb(nil, func(x []ad.Num) ad.Num {
		return x[0].Mul(x[0]).MulConst(-0.5)
	})
	s.SetVariableValues([]float64{0})

	const warmup, draws = 500, 5000
	for i := 0; i < warmup; i++ {
		s.Next()
	}
	s.SetAdaptation(false)

	xs := make([]float64, draws)
	for i := range xs {
		xs[i] = s.Next().X[0]
	}

	mean, variance := stat.MeanVariance(xs, nil)
	fmt.Printf("draws:    %d (after %d warmup)\n", draws, warmup)
	fmt.Printf("epsilon:  %.4f\n", s.Epsilon())
	fmt.Printf("mean:     %+.4f (target 0)\n", mean)
	fmt.Printf("variance: %.4f (target 1)\n", variance)
}
