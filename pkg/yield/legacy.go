package yield

// stalkPerSeed is the grown stalk one seed accrues per season.
const stalkPerSeed = 0.0001

// preGaugeAPY is the closed-form calculator used before the seed gauge went
// live: every asset earns a fixed seeds-per-bdv rate, so one simulated
// deposit can be advanced against the silo totals without gauge state.
//
// The deposit is normalized to seedsPerBdv/seedsPerBeanBdv bdv so that one
// deposited bean is the unit; b tracks the farmer's bdv and k their stalk,
// against silo totals C (seeds) and K (stalk).
func preGaugeAPY(beansPerSeason, seedsPerBdv, seedsPerBeanBdv, totalStalk, totalSeeds float64) [2]float64 {
	C := totalSeeds
	K := totalStalk
	b := seedsPerBdv / seedsPerBeanBdv
	k := 1.0

	bStart := b
	kStart := k

	for i := 0; i < oneYearSeasons; i++ {
		ownership := k / K
		newBdv := beansPerSeason * ownership

		// Every seignorage bean mints one stalk and seedsPerBeanBdv seeds;
		// outstanding seeds grow stalk at the fixed per-season rate.
		Ci := C + beansPerSeason*seedsPerBeanBdv
		Ki := K + beansPerSeason + stalkPerSeed*C
		bi := b + newBdv
		ki := k + newBdv + stalkPerSeed*(seedsPerBdv*b)

		C, K, b, k = Ci, Ki, bi, ki
	}

	return [2]float64{b/bStart - 1, (k - kStart) / kStart}
}
