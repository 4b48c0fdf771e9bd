package population

// Stats summarises the demographics of a population. It is diagnostic only.
type Stats struct {
	Size     int
	Males    int
	Females  int
	Youngest float64
	Oldest   float64
	MeanAge  float64
	Infected int
	// BySeverity counts agents at each severity level 0..MaxSeverity.
	BySeverity [MaxSeverity + 1]int
}

// Prevalence returns the infected fraction recorded in the summary.
func (s Stats) Prevalence() float64 {
	if s.Size == 0 {
		return 0
	}
	return float64(s.Infected) / float64(s.Size)
}

// Summary aggregates the population without mutating it. An empty population
// yields a zero Stats.
func (p *Population) Summary() Stats {
	var st Stats
	n := p.Len()
	if n == 0 {
		return st
	}
	st.Size = n
	st.Youngest = p.age[0]
	st.Oldest = p.age[0]
	total := 0.0
	for i := 0; i < n; i++ {
		if p.sex[i] == Male {
			st.Males++
		} else {
			st.Females++
		}
		a := p.age[i]
		total += a
		if a < st.Youngest {
			st.Youngest = a
		}
		if a > st.Oldest {
			st.Oldest = a
		}
		sev := min(int(p.severity[i]), MaxSeverity)
		st.BySeverity[sev]++
		if sev > 0 {
			st.Infected++
		}
	}
	st.MeanAge = total / float64(n)
	return st
}
