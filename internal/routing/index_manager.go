// Package routing models the multi-trip capacitated routing problem as a
// constrained search over visit sequences.
//
// Nodes are stop positions in the duration matrix. Indices are the solver's
// variables: every non-depot node owns one index, and every vehicle slot owns
// a dedicated start index and end index that both map back to the depot node.
package routing

import "fmt"

// IndexManager converts between node positions and solver indices.
type IndexManager struct {
	numNodes    int
	numVehicles int
	depot       int
	indexToNode []int
	nodeToIndex []int
}

func NewIndexManager(numNodes, numVehicles, depot int) (*IndexManager, error) {
	if numNodes < 1 {
		return nil, fmt.Errorf("new index manager: %w: need at least one node, got %d", ErrInvalidModel, numNodes)
	}
	if numVehicles < 1 {
		return nil, fmt.Errorf("new index manager: %w: need at least one vehicle, got %d", ErrInvalidModel, numVehicles)
	}
	if depot < 0 || depot >= numNodes {
		return nil, fmt.Errorf("new index manager: %w: depot %d out of range [0, %d)", ErrInvalidModel, depot, numNodes)
	}

	customers := numNodes - 1
	m := &IndexManager{
		numNodes:    numNodes,
		numVehicles: numVehicles,
		depot:       depot,
		indexToNode: make([]int, customers+2*numVehicles),
		nodeToIndex: make([]int, numNodes),
	}

	idx := 0
	for node := 0; node < numNodes; node++ {
		if node == depot {
			m.nodeToIndex[node] = -1
			continue
		}
		m.indexToNode[idx] = node
		m.nodeToIndex[node] = idx
		idx++
	}
	for v := 0; v < numVehicles; v++ {
		m.indexToNode[m.Start(v)] = depot
		m.indexToNode[m.End(v)] = depot
	}

	return m, nil
}

func (m *IndexManager) NumNodes() int    { return m.numNodes }
func (m *IndexManager) NumVehicles() int { return m.numVehicles }
func (m *IndexManager) Depot() int       { return m.depot }

// NumCustomers is the number of non-depot nodes.
func (m *IndexManager) NumCustomers() int { return m.numNodes - 1 }

// Size is the number of indices that have a successor (customers and starts).
func (m *IndexManager) Size() int { return m.NumCustomers() + m.numVehicles }

// SizeWithEnds counts every index, end indices included.
func (m *IndexManager) SizeWithEnds() int { return len(m.indexToNode) }

func (m *IndexManager) Start(vehicle int) int { return m.NumCustomers() + vehicle }

func (m *IndexManager) End(vehicle int) int { return m.NumCustomers() + m.numVehicles + vehicle }

func (m *IndexManager) IsStart(index int) bool {
	return index >= m.NumCustomers() && index < m.NumCustomers()+m.numVehicles
}

func (m *IndexManager) IsEnd(index int) bool {
	return index >= m.NumCustomers()+m.numVehicles && index < len(m.indexToNode)
}

// IsCustomer reports whether the index belongs to a non-depot node.
func (m *IndexManager) IsCustomer(index int) bool {
	return index >= 0 && index < m.NumCustomers()
}

func (m *IndexManager) IndexToNode(index int) int { return m.indexToNode[index] }

// NodeToIndex returns -1 for the depot, which has one start and one end index per vehicle.
func (m *IndexManager) NodeToIndex(node int) int { return m.nodeToIndex[node] }

// Customers lists every customer index in ascending order.
func (m *IndexManager) Customers() []int {
	out := make([]int, m.NumCustomers())
	for i := range out {
		out[i] = i
	}
	return out
}
