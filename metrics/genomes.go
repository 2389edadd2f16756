package metrics

import "github.com/dasnellings/facetsTools/config"

// chromArms holds the centromere position and total length for one
// chromosome, defining the p arm [0, cen) and q arm [cen, length).
type chromArms struct {
	chrom  string
	cen    int
	length int
}

// Approximate centromere midpoints and chromosome lengths per build,
// from the UCSC gap tables.
var armTables = map[config.Genome][]chromArms{
	config.Hg18: {
		{"1", 124300000, 247249719}, {"2", 93300000, 242951149}, {"3", 91700000, 199501827},
		{"4", 50700000, 191273063}, {"5", 47700000, 180857866}, {"6", 60500000, 170899992},
		{"7", 59100000, 158821424}, {"8", 45200000, 146274826}, {"9", 51800000, 140273252},
		{"10", 40300000, 135374737}, {"11", 52900000, 134452384}, {"12", 35400000, 132349534},
		{"13", 16000000, 114142980}, {"14", 15600000, 106368585}, {"15", 17000000, 100338915},
		{"16", 38200000, 88827254}, {"17", 22200000, 78774742}, {"18", 16100000, 76117153},
		{"19", 28500000, 63811651}, {"20", 27100000, 62435964}, {"21", 12300000, 46944323},
		{"22", 11800000, 49691432}, {"X", 59500000, 154913754}, {"Y", 11300000, 57772954},
	},
	config.Hg19: {
		{"1", 125000000, 249250621}, {"2", 93300000, 243199373}, {"3", 91000000, 198022430},
		{"4", 50400000, 191154276}, {"5", 48400000, 180915260}, {"6", 61000000, 171115067},
		{"7", 59900000, 159138663}, {"8", 45600000, 146364022}, {"9", 49000000, 141213431},
		{"10", 40200000, 135534747}, {"11", 53700000, 135006516}, {"12", 35800000, 133851895},
		{"13", 17900000, 115169878}, {"14", 17600000, 107349540}, {"15", 19000000, 102531392},
		{"16", 36600000, 90354753}, {"17", 24000000, 81195210}, {"18", 17200000, 78077248},
		{"19", 26500000, 59128983}, {"20", 27500000, 63025520}, {"21", 13200000, 48129895},
		{"22", 14700000, 51304566}, {"X", 60600000, 155270560}, {"Y", 12500000, 59373566},
	},
	config.Hg38: {
		{"1", 123400000, 248956422}, {"2", 93900000, 242193529}, {"3", 90900000, 198295559},
		{"4", 50000000, 190214555}, {"5", 48800000, 181538259}, {"6", 59800000, 170805979},
		{"7", 60100000, 159345973}, {"8", 45200000, 145138636}, {"9", 43000000, 138394717},
		{"10", 39800000, 133797422}, {"11", 53400000, 135086622}, {"12", 35500000, 133275309},
		{"13", 17700000, 114364328}, {"14", 17200000, 107043718}, {"15", 19000000, 101991189},
		{"16", 36800000, 90338345}, {"17", 25100000, 83257441}, {"18", 18500000, 80373285},
		{"19", 26200000, 58617616}, {"20", 28100000, 64444167}, {"21", 12000000, 46709983},
		{"22", 15000000, 50818468}, {"X", 60800000, 156040895}, {"Y", 10400000, 57227415},
	},
}

// chromRank orders chromosomes 1-22, X, Y for stable output.
func chromRank(chrom string) int {
	switch chrom {
	case "X", "23":
		return 23
	case "Y", "24":
		return 24
	default:
		var n int
		for i := 0; i < len(chrom); i++ {
			if chrom[i] < '0' || chrom[i] > '9' {
				return 99
			}
			n = n*10 + int(chrom[i]-'0')
		}
		return n
	}
}
