package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ScenarioTripinfo has three person records, one of them with an unassigned
// ride, and two drt vehicles with durations 600s/400s and stop times 100s/50s.
const ScenarioTripinfo = `<?xml version="1.0" encoding="UTF-8"?>
<tripinfos>
    <tripinfo id="taxi_0" vType="drt" depart="0.00" arrival="600.00" duration="600.00" routeLength="9000.00" stopTime="100.00" timeLoss="0.00">
        <taxi customers="2" occupiedDistance="4000.00" occupiedTime="300.00"/>
    </tripinfo>
    <tripinfo id="taxi_1" vType="drt" depart="0.00" arrival="400.00" duration="400.00" routeLength="6000.00" stopTime="50.00" timeLoss="0.00">
        <taxi customers="1" occupiedDistance="2000.00" occupiedTime="180.00"/>
    </tripinfo>
    <personinfo id="p1" depart="10.00">
        <walk depart="10.00" arrival="70.00" duration="60.00" routeLength="80.00"/>
        <ride depart="70.00" arrival="370.00" duration="300.00" routeLength="3000.00" waitingTime="120.00" vehicle="taxi_0" timeLoss="30.00"/>
    </personinfo>
    <personinfo id="p2" depart="20.00">
        <ride depart="20.00" arrival="260.00" duration="240.00" routeLength="2500.00" waitingTime="60.00" vehicle="taxi_1" timeLoss="10.00"/>
    </personinfo>
    <personinfo id="p3" depart="30.00">
        <ride depart="-1" arrival="-1" duration="-1" routeLength="-1" waitingTime="-1" vehicle="NULL" timeLoss="-1"/>
    </personinfo>
</tripinfos>
`

// ScenarioDispatch holds one shared match of p1 and p2.
const ScenarioDispatch = `<?xml version="1.0" encoding="UTF-8"?>
<dispatches>
    <dispatchShared time="70.00" id="taxi_0" persons="p1" sharingPersons="p2" type="before" absLoss="40.00" relLoss="0.20" absLoss2="60.00" relLoss2="0.30"/>
</dispatches>
`

// ScenarioDirectRoutes holds the undisturbed routes of p1 and p2.
const ScenarioDirectRoutes = `<?xml version="1.0" encoding="UTF-8"?>
<routes>
    <vehicle id="p1" depart="70.00">
        <route edges="a b c" cost="180.00" routeLength="2800.00"/>
    </vehicle>
    <vehicle id="p2" depart="20.00">
        <route edges="c d" cost="150.00" routeLength="2300.00"/>
    </vehicle>
</routes>
`

// EmptyDispatch is a dispatchinfo file without shared matches.
const EmptyDispatch = `<?xml version="1.0" encoding="UTF-8"?>
<dispatches>
</dispatches>
`

// EmptyDirectRoutes is a route file without vehicles.
const EmptyDirectRoutes = `<?xml version="1.0" encoding="UTF-8"?>
<routes>
</routes>
`

// WriteFixture writes content to name inside dir and returns the path
func WriteFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}
