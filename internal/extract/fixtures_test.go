package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"drtkpi/internal/xmltree"
)

// scenarioTripinfo has two accepted ride journeys, one journey with an
// unassigned ride, and two drt vehicles plus one vehicle of another type.
const scenarioTripinfo = `<?xml version="1.0" encoding="UTF-8"?>
<tripinfos>
    <tripinfo id="taxi_0" vType="drt" depart="0.00" arrival="600.00" duration="600.00" routeLength="9000.00" stopTime="100.00" timeLoss="0.00">
        <taxi customers="2" occupiedDistance="4000.00" occupiedTime="300.00"/>
    </tripinfo>
    <tripinfo id="taxi_1" vType="drt" depart="0.00" arrival="400.00" duration="400.00" routeLength="6000.00" stopTime="50.00" timeLoss="0.00">
        <taxi customers="1" occupiedDistance="2000.00" occupiedTime="180.00"/>
    </tripinfo>
    <tripinfo id="car_0" vType="passenger" duration="90.00" routeLength="800.00" stopTime="0.00"/>
    <personinfo id="p1" depart="10.00" type="DEFAULT_PEDTYPE">
        <walk depart="10.00" arrival="70.00" duration="60.00" routeLength="80.00" timeLoss="0.00"/>
        <ride depart="70.00" arrival="370.00" duration="300.00" routeLength="3000.00" waitingTime="120.00" vehicle="taxi_0" timeLoss="30.00"/>
        <walk depart="370.00" arrival="430.00" duration="60.00" routeLength="70.00" timeLoss="0.00"/>
    </personinfo>
    <personinfo id="p2" depart="20.00" type="DEFAULT_PEDTYPE">
        <ride depart="20.00" arrival="260.00" duration="240.00" routeLength="2500.00" waitingTime="60.00" vehicle="taxi_1" timeLoss="10.00"/>
    </personinfo>
    <personinfo id="p3" depart="30.00" type="DEFAULT_PEDTYPE">
        <walk depart="30.00" arrival="90.00" duration="60.00" routeLength="75.00" timeLoss="0.00"/>
        <ride depart="-1" arrival="-1" duration="-1" routeLength="-1" waitingTime="-1" vehicle="NULL" timeLoss="-1"/>
    </personinfo>
</tripinfos>`

func parseDoc(t *testing.T, source, xml string) *xmltree.Document {
	t.Helper()
	doc, err := xmltree.Parse(source, strings.NewReader(xml))
	require.NoError(t, err)
	return doc
}

// tripinfoWith wraps person records with one drt vehicle trip.
func tripinfoWith(persons ...string) string {
	return `<tripinfos>
    <tripinfo id="taxi_0" vType="drt" duration="500" routeLength="5000" stopTime="50">
        <taxi occupiedDistance="1000" occupiedTime="200"/>
    </tripinfo>
` + strings.Join(persons, "\n") + `
</tripinfos>`
}

func ride(depart, arrival, length, vehicle string) string {
	return `<ride depart="` + depart + `" arrival="` + arrival + `" duration="100" routeLength="` + length +
		`" waitingTime="30" vehicle="` + vehicle + `" timeLoss="5"/>`
}

func walk(depart, arrival string) string {
	return `<walk depart="` + depart + `" arrival="` + arrival + `" duration="50" routeLength="40"/>`
}

func person(id, depart string, legs ...string) string {
	return `<personinfo id="` + id + `" depart="` + depart + `">` + strings.Join(legs, "") + `</personinfo>`
}

func ptr(v float64) *float64 { return &v }
