// Package engine advances reservoir pressure through time.
//
// Each timestep samples the fluid table at the previous pressure, assembles
// the 7-point backward-Euler system
//
//	(Γ + T) · P_new = Γ · P_old
//
// where Γ is the diagonal accumulation term vb·φ·ct / (Bo·dt) and T the
// symmetric transmissibility matrix, and solves it with conjugate gradient
// on the injected [compute.Backend].
//
// Timesteps are strictly sequential. A run can only be stopped between
// steps, through its context. A solve that does not converge ends the run
// in [Diverged] with the last converged pressure and a
// [simerr.ConvergenceError].
//
// # Units
//
// Everything is SI: Pa, m², Pa·s, s. Permeabilities arrive in millidarcy
// from [rock.Properties] and are converted once in [New].
//
// # Thread Safety
//
// An Engine may be reused for successive runs but not for concurrent ones.
package engine
