// SPDX-License-Identifier: MIT
package toll_test

import (
	"fmt"

	"github.com/katalvlaran/routechoice/toll"
)

// ExampleIndifferenceToll shows the toll growing as money matters less to
// the traveler.
func ExampleIndifferenceToll() {
	const marginal, travelTime = 6.0, 16.0
	for _, p := range []float64{1, 0.5, 0.25} {
		fmt.Printf("p=%.2f toll=%g\n", p, toll.IndifferenceToll(marginal, travelTime, p))
	}
	// Output:
	// p=1.00 toll=22
	// p=0.50 toll=28
	// p=0.25 toll=40
}

// ExampleSidePayment redistributes half of 500 collected to 100 units of demand.
func ExampleSidePayment() {
	fmt.Println(toll.SidePayment(500, 0.5, 100))
	// Output: 2.5
}
