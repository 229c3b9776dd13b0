package cst

import (
	"fmt"
	"math"
	"strings"
)

type DistributionType uint8

const (
	ClusterCos DistributionType = iota
	HalfCosine
	Uniform
)

var DistributionNames = map[string]DistributionType{
	"clustcos":   ClusterCos,
	"clustercos": ClusterCos,
	"halfcosine": HalfCosine,
	"cosine":     HalfCosine,
	"uniform":    Uniform,
}

func NewDistributionType(label string) (dt DistributionType, err error) {
	var ok bool
	if label == "" {
		return ClusterCos, nil
	}
	if dt, ok = DistributionNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown point distribution %q", label)
	}
	return
}

func (dt DistributionType) String() string {
	switch dt {
	case ClusterCos:
		return "ClusterCos"
	case HalfCosine:
		return "HalfCosine"
	case Uniform:
		return "Uniform"
	}
	return fmt.Sprintf("DistributionType(%d)", uint8(dt))
}

// Parameters of the default clustered cosine distribution
const (
	clusterA0   = 0.0079
	clusterA1   = 0.96
	clusterBeta = 1.0
)

// Distribution samples nn points on [0,1], with x[0]=0 and x[nn-1]=1 exactly
func Distribution(dt DistributionType, nn int) (x []float64) {
	if nn < 2 {
		panic(fmt.Errorf("distribution needs at least 2 points, have %d", nn))
	}
	x = make([]float64, nn)
	for i := range x {
		switch dt {
		case ClusterCos:
			x[i] = clusterCos(i, nn, clusterA0, clusterA1, clusterBeta)
		case HalfCosine:
			x[i] = 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(nn-1)))
		default:
			x[i] = float64(i) / float64(nn-1)
		}
	}
	x[0], x[nn-1] = 0, 1
	return
}

/*
clusterCos clusters points towards both ends of [0,1] by sampling a cosine
between fractions a0 and a1 of a half period, then renormalizing.
*/
func clusterCos(i, nn int, a0, a1, beta float64) float64 {
	var (
		f = func(a float64) float64 {
			return math.Pow((1-math.Cos(a))/2, beta)
		}
		aa = f(math.Pi * a0)
		dd = f(math.Pi*a1) - aa
		yt = float64(i) / float64(nn-1)
	)
	return (f(math.Pi*(a0*(1-yt)+a1*yt)) - aa) / dd
}
