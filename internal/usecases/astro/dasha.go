package astro

import (
	"math"
	"time"

	"github.com/admin/zodira/astro-api/internal/domain"
)

const (
	nakshatraCount = 27
	nakshatraSpan  = 360.0 / nakshatraCount

	dashaCoverageYears = 120.0
	daysPerYear        = 365.25
	dashaDateLayout    = "2006-01-02"

	// погрешность float на границах накшатр и при переводе остатка даши в годы и месяцы
	dashaEpsilon = 1e-9
)

// ComputeDasha строит последовательность махадаш Вимшоттари от момента рождения.
// moonLongitude == nil считается как 0°. Первая даша неполная: её длительность
// пропорциональна остатку накшатры, в которой стоит Луна. Дальше планеты идут по
// кругу с полной длительностью, пока от рождения не пройдёт не меньше 120 лет.
func ComputeDasha(birth time.Time, moonLongitude *float64, order []domain.VimshottariEntry) []domain.DashaPeriod {
	if len(order) == 0 {
		order = domain.DefaultVimshottariOrder()
	}

	longitude := 0.0
	if moonLongitude != nil && !math.IsNaN(*moonLongitude) && !math.IsInf(*moonLongitude, 0) {
		longitude = math.Mod(*moonLongitude, 360)
		if longitude < 0 {
			longitude += 360
		}
	}

	nakshatra := int(math.Floor(longitude/nakshatraSpan + dashaEpsilon))
	nakshatra = max(0, min(nakshatra, nakshatraCount-1))

	start := nakshatra % len(order)
	ruler := order[start]

	progress := longitude - float64(nakshatra)*nakshatraSpan
	balanceFraction := (nakshatraSpan - progress) / nakshatraSpan
	balanceFraction = max(0, min(balanceFraction, 1))
	balanceYears := float64(ruler.Years) * balanceFraction

	wholeYears := int(balanceYears + dashaEpsilon)
	remainderMonths := max(0, int((balanceYears-float64(wholeYears))*12+dashaEpsilon))

	periods := make([]domain.DashaPeriod, 0, 16)
	current := birth
	end := addYearsMonths(current, wholeYears, remainderMonths)
	periods = append(periods, newDashaPeriod(ruler.Planet, birth, current, end))
	current = end

	maxPeriods := len(order) * 12
	for i := 1; i < maxPeriods; i++ {
		entry := order[(start+i)%len(order)]
		end = addYearsMonths(current, entry.Years, 0)
		periods = append(periods, newDashaPeriod(entry.Planet, birth, current, end))
		current = end

		if yearsSince(birth, current) >= dashaCoverageYears {
			break
		}
	}

	return periods
}

func newDashaPeriod(planet string, birth, start, end time.Time) domain.DashaPeriod {
	return domain.DashaPeriod{
		Planet:    planet,
		StartDate: start.Format(dashaDateLayout),
		EndDate:   end.Format(dashaDateLayout),
		StartAge:  roundAge(yearsSince(birth, start)),
		EndAge:    roundAge(yearsSince(birth, end)),
	}
}

// yearsSince полные сутки между датами, делённые на 365.25
func yearsSince(birth, t time.Time) float64 {
	days := math.Floor(t.Sub(birth).Hours() / 24)
	return days / daysPerYear
}

func roundAge(years float64) float64 {
	return math.Round(years*100) / 100
}

// addYearsMonths календарное сложение; если дня нет в целевом месяце
// (29 февраля, 31-е число), берётся последний день месяца
func addYearsMonths(t time.Time, years, months int) time.Time {
	totalMonths := int(t.Month()) - 1 + months
	year := t.Year() + years + totalMonths/12
	month := time.Month(totalMonths%12 + 1)

	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
