// Package attributes turns GCLP ground states into T=0K stability
// descriptors for machine-learning feature vectors.
//
// Descriptors (in vector order):
//
//	– T0K:Enthalpy               ground-state energy of the target.
//	– T0K:NPhasesEquilibrium     number of phases in equilibrium.
//	– T0K:ClosestPhaseDistance   min Euclidean distance target→phase.
//	– T0K:MeanPhaseDistance      mean Euclidean distance target→phase.
//	– T0K:QuasiEntropy           Σ f·ln f over phase fractions (≤ 0).
//
// Distances are measured over the target's element dimensions only; every
// equilibrium phase lives in the target's sub-system, so nothing is lost.
// The quasi-entropy is a mixing-proportion proxy, reported unscaled.
//
// WithoutPhaseCount drops the phase count and the quasi-entropy, leaving
// three descriptors.
package attributes
